// Package backend is the typed client for the Watchify catalog REST
// API. All responses are decoded leniently: the backend wraps payloads
// in a {"data": ...} envelope on newer deployments and returns the
// payload bare on older ones, and this client accepts both.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/domain"
	apperrors "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/errors"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/httpclient"
)

const serviceName = "catalog-backend"

// Doer is the transport the client issues requests through. Both
// httpclient.Client and httpclient.BreakerClient satisfy it.
type Doer interface {
	Get(ctx context.Context, url string) (*http.Response, error)
	Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error)
}

// ProductPage is one page of a category's product listing. Products
// stay raw here; normalization happens in the catalog layer.
type ProductPage struct {
	Products   []any `json:"products"`
	TotalPages int   `json:"totalPages"`
}

// ChatMessage is an outbound chat message for the support channel.
type ChatMessage struct {
	ConversationID string `json:"conversationId"`
	Sender         string `json:"sender"`
	Content        string `json:"content"`
}

// ChatReply is the backend's acknowledgement of a chat message.
type ChatReply struct {
	MessageID string `json:"messageId"`
	Reply     string `json:"reply,omitempty"`
}

type Client struct {
	baseURL string
	http    Doer
	logger  *slog.Logger
}

func New(baseURL string, doer Doer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		logger:  logger,
	}
}

// ListActiveCategories fetches every category currently visible in the
// storefront.
func (c *Client) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/api/v1/categories/active")
	if err != nil {
		return nil, apperrors.Wrap(err, "fetch active categories")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}

	var categories []domain.Category
	if err := decodePayload(resp.Body, &categories); err != nil {
		return nil, apperrors.Wrap(err, "decode categories response")
	}
	return categories, nil
}

// ListProducts fetches one page of a category's products. The backend
// page index is zero-based; callers pass it through as-is.
func (c *Client) ListProducts(ctx context.Context, categoryID string, page, size int) (ProductPage, error) {
	q := url.Values{}
	q.Set("categoryId", categoryID)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	resp, err := c.http.Get(ctx, c.baseURL+"/api/v1/products?"+q.Encode())
	if err != nil {
		return ProductPage{}, apperrors.Wrap(err, "fetch products")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ProductPage{}, httpclient.ParseResponseError(resp, serviceName)
	}

	var out ProductPage
	if err := decodePayload(resp.Body, &out); err != nil {
		return ProductPage{}, apperrors.Wrap(err, "decode products response")
	}
	if out.Products == nil {
		out.Products = []any{}
	}
	return out, nil
}

// GetProduct fetches a single product by id or slug. The record is
// returned raw so the caller can run it through the normalizer.
func (c *Client) GetProduct(ctx context.Context, idOrSlug string) (map[string]any, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/api/v1/products/"+url.PathEscape(idOrSlug))
	if err != nil {
		return nil, apperrors.Wrap(err, "fetch product")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFound("product", idOrSlug)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}

	var raw map[string]any
	if err := decodePayload(resp.Body, &raw); err != nil {
		return nil, apperrors.Wrap(err, "decode product response")
	}
	return raw, nil
}

// SendChatMessage relays a support chat message to the backend.
func (c *Client) SendChatMessage(ctx context.Context, msg ChatMessage) (ChatReply, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return ChatReply{}, apperrors.Wrap(err, "encode chat message")
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/api/v1/chat/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		return ChatReply{}, apperrors.Wrap(err, "send chat message")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ChatReply{}, httpclient.ParseResponseError(resp, serviceName)
	}

	var reply ChatReply
	if err := decodePayload(resp.Body, &reply); err != nil {
		return ChatReply{}, apperrors.Wrap(err, "decode chat response")
	}
	return reply, nil
}

// decodePayload unmarshals a response body into out, unwrapping the
// {"data": ...} envelope when present.
func decodePayload(r io.Reader, out any) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response payload: %w", err)
	}
	return nil
}
