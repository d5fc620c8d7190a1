// Package event publishes storefront analytics events. Publishing is
// strictly fire-and-forget: the storefront never blocks or fails a
// request because the event bus is down.
package event

import (
	"context"
	"log/slog"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/domain"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/kafka"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/logger"
)

const (
	source = "watchify-storefront"

	TopicCatalogViewed   = "watchify.catalog.viewed"
	TopicProductViewed   = "watchify.product.viewed"
	TopicChatMessageSent = "watchify.chat.message_sent"
)

// CatalogViewed is emitted when a home catalog page is served.
type CatalogViewed struct {
	Page     int                    `json:"page"`
	Limit    int                    `json:"limit"`
	Segments map[domain.Segment]int `json:"segments"` // products served per segment
}

// ProductViewed is emitted when a product detail page is served.
type ProductViewed struct {
	ProductID string `json:"productId"`
	Slug      string `json:"slug,omitempty"`
}

// ChatMessageSent is emitted when a chat message is accepted for relay.
type ChatMessageSent struct {
	ConversationID string `json:"conversationId"`
}

// producer is the slice of the kafka producer the publisher needs.
type producer interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Publisher emits analytics events. A nil-producer Publisher (brokers
// not configured) silently drops everything, so callers never branch.
type Publisher struct {
	producer producer
	logger   *slog.Logger
}

func NewPublisher(p *kafka.Producer, log *slog.Logger) *Publisher {
	pub := &Publisher{logger: log}
	if p != nil {
		pub.producer = p
	}
	return pub
}

func (p *Publisher) CatalogViewed(ctx context.Context, payload CatalogViewed) {
	p.publish(ctx, TopicCatalogViewed, payload)
}

func (p *Publisher) ProductViewed(ctx context.Context, payload ProductViewed) {
	p.publish(ctx, TopicProductViewed, payload)
}

func (p *Publisher) ChatMessageSent(ctx context.Context, payload ChatMessageSent) {
	p.publish(ctx, TopicChatMessageSent, payload)
}

func (p *Publisher) publish(ctx context.Context, topic string, payload any) {
	if p.producer == nil {
		return
	}

	evt, err := kafka.NewEvent(topic, source, payload)
	if err != nil {
		p.logger.Error("encode analytics event", "topic", topic, "error", err)
		return
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt = evt.WithCorrelationID(id)
	}

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.logger.Warn("publish analytics event", "topic", topic, "error", err)
	}
}
