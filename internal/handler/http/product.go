package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/event"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/normalize"
	apperrors "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/errors"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/httputil"
)

// ProductGetter fetches a single raw product record from the backend.
type ProductGetter interface {
	GetProduct(ctx context.Context, idOrSlug string) (map[string]any, error)
}

// ProductHandler serves normalized product detail views.
type ProductHandler struct {
	backend ProductGetter
	events  *event.Publisher
	logger  *slog.Logger
}

func NewProductHandler(backend ProductGetter, events *event.Publisher, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{backend: backend, events: events, logger: logger}
}

// GetProduct handles GET /api/v1/products/{idOrSlug}. The raw backend
// record is run through the normalizer so the storefront always sees
// the canonical shape regardless of which schema the backend speaks.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	if idOrSlug == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("product id or slug is required"), h.logger)
		return
	}

	raw, err := h.backend.GetProduct(r.Context(), idOrSlug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product := normalize.Product(raw)
	h.events.ProductViewed(r.Context(), event.ProductViewed{
		ProductID: product.ID,
		Slug:      product.Slug,
	})

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}
