package http

import (
	"log/slog"
	"net/http"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/catalog"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/domain"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/event"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/httputil"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/pagination"
)

// CatalogHandler serves the aggregated home catalog.
type CatalogHandler struct {
	store  *catalog.Store
	events *event.Publisher
	logger *slog.Logger
}

func NewCatalogHandler(store *catalog.Store, events *event.Publisher, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{store: store, events: events, logger: logger}
}

// GetHome handles GET /api/v1/catalog/home. The response is the store's
// current snapshot for the requested page and limit; a failed cycle is
// reported in the snapshot's error field with the previous data frozen,
// so the storefront can keep rendering what it had.
func (h *CatalogHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	snap := h.store.Get(r.Context(), params.Page, params.Limit)

	if snap.Error == "" {
		segments := make(map[domain.Segment]int, len(snap.Data))
		for seg, products := range snap.Data {
			segments[seg] = len(products)
		}
		h.events.CatalogViewed(r.Context(), event.CatalogViewed{
			Page:     snap.Page,
			Limit:    snap.Limit,
			Segments: segments,
		})
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// Refresh handles POST /api/v1/catalog/home/refresh, forcing a new
// aggregation cycle at the current page and limit.
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Refresh(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}
