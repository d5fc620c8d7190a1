// Package catalog assembles the storefront home view: three audience
// segments (male, female, couple), each backed by a fixed category slug
// and fetched as one page of normalized products.
package catalog

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/backend"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/domain"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/normalize"
	apperrors "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/errors"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/pagination"
)

// Backend is the slice of the catalog API the aggregator needs.
type Backend interface {
	ListActiveCategories(ctx context.Context) ([]domain.Category, error)
	ListProducts(ctx context.Context, categoryID string, page, size int) (backend.ProductPage, error)
}

// Result is one aggregation cycle's output. Every segment key is
// always present; a segment whose slug resolved to nothing, or whose
// fetch failed, holds an empty product list and zero pages.
type Result struct {
	Data       map[domain.Segment][]domain.Product `json:"data"`
	TotalPages map[domain.Segment]int              `json:"totalPages"`

	// Degraded records segments whose product fetch failed this cycle,
	// keyed to a short reason. The rest of the result is still valid.
	Degraded map[domain.Segment]string `json:"degraded,omitempty"`
}

func emptyResult() Result {
	r := Result{
		Data:       make(map[domain.Segment][]domain.Product, len(domain.Segments)),
		TotalPages: make(map[domain.Segment]int, len(domain.Segments)),
		Degraded:   make(map[domain.Segment]string),
	}
	for _, seg := range domain.Segments {
		r.Data[seg] = []domain.Product{}
		r.TotalPages[seg] = 0
	}
	return r
}

type Aggregator struct {
	backend Backend
	logger  *slog.Logger
}

func NewAggregator(b Backend, logger *slog.Logger) *Aggregator {
	return &Aggregator{backend: b, logger: logger}
}

// Fetch runs one aggregation cycle for a 1-based page and a page size.
//
// The category list is fetched first and is fatal on failure: with no
// slug resolution there is nothing to build. The three segment fetches
// then run concurrently. A segment whose slug has no matching top-level
// category is served empty without a network call, and a segment whose
// product fetch fails is degraded to empty rather than failing the
// other two.
func (a *Aggregator) Fetch(ctx context.Context, page, limit int) (Result, error) {
	categories, err := a.backend.ListActiveCategories(ctx)
	if err != nil {
		return Result{}, apperrors.Wrap(err, "resolve segment categories")
	}

	ids := resolveSegments(categories)
	result := emptyResult()
	backendPage := pagination.Params{Page: page, Limit: limit}.BackendPage()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, seg := range domain.Segments {
		id, ok := ids[seg]
		if !ok {
			a.logger.Warn("segment category slug not found, serving empty",
				"segment", seg, "slug", domain.SegmentSlugs[seg])
			continue
		}
		seg, id := seg, id
		g.Go(func() error {
			productPage, err := a.backend.ListProducts(gctx, id, backendPage, limit)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.logger.Warn("segment product fetch failed, degrading to empty",
					"segment", seg, "category_id", id, "error", err)
				result.Degraded[seg] = err.Error()
				return nil
			}
			result.Data[seg] = normalize.Products(productPage.Products)
			result.TotalPages[seg] = productPage.TotalPages
			return nil
		})
	}
	g.Wait()

	return result, nil
}

// resolveSegments maps each segment slug to a category id by exact
// match within the top-level categories. Missing slugs are simply
// absent from the returned map.
func resolveSegments(categories []domain.Category) map[domain.Segment]string {
	bySlug := make(map[string]string, len(categories))
	for _, c := range categories {
		if c.ParentID != "" {
			continue
		}
		bySlug[c.Slug] = c.ID
	}

	ids := make(map[domain.Segment]string, len(domain.Segments))
	for seg, slug := range domain.SegmentSlugs {
		if id, ok := bySlug[slug]; ok {
			ids[seg] = id
		}
	}
	return ids
}
