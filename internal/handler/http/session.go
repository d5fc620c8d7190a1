package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/session"
	apperrors "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/errors"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/httputil"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/validator"
)

// SessionHandler exposes the visitor's wishlist and cart mirror.
type SessionHandler struct {
	store  session.Store
	logger *slog.Logger
}

func NewSessionHandler(store session.Store, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{store: store, logger: logger}
}

// GetSession handles GET /api/v1/session.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(r.Context(), sessionIDFrom(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

// GetWishlist handles GET /api/v1/session/wishlist.
func (h *SessionHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(r.Context(), sessionIDFrom(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Wishlist})
}

// GetCart handles GET /api/v1/session/cart.
func (h *SessionHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(r.Context(), sessionIDFrom(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Cart})
}

// AddWishlistRequest is the JSON request body for adding a wishlist item.
type AddWishlistRequest struct {
	ProductID string `json:"productId" validate:"required,min=1,max=100"`
}

// AddWishlistItem handles POST /api/v1/session/wishlist.
func (h *SessionHandler) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req AddWishlistRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.store.AddWishlistItem(r.Context(), sessionIDFrom(r), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

// RemoveWishlistItem handles DELETE /api/v1/session/wishlist/{productID}.
func (h *SessionHandler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("product id is required"), h.logger)
		return
	}

	sess, err := h.store.RemoveWishlistItem(r.Context(), sessionIDFrom(r), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

// ReplaceCartRequest is the JSON request body for replacing the cart.
type ReplaceCartRequest struct {
	Items []session.CartItem `json:"items" validate:"dive"`
}

// ReplaceCart handles PUT /api/v1/session/cart. The cart is replaced
// wholesale; incremental edits are composed client-side from the last
// read so the mirror only ever needs one designated write operation.
func (h *SessionHandler) ReplaceCart(w http.ResponseWriter, r *http.Request) {
	var req ReplaceCartRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			httputil.WriteError(w, r,
				apperrors.InvalidInput("cart items need a product id and a positive quantity"), h.logger)
			return
		}
	}

	sess, err := h.store.ReplaceCart(r.Context(), sessionIDFrom(r), req.Items)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

// ClearCart handles DELETE /api/v1/session/cart.
func (h *SessionHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.ClearCart(r.Context(), sessionIDFrom(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}
