package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/backend"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/domain"
	apperrors "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// stubBackend records product calls and delegates to function fields.
type stubBackend struct {
	mu            sync.Mutex
	productCalls  []productCall
	categoriesFn  func(ctx context.Context) ([]domain.Category, error)
	listProductsFn func(ctx context.Context, categoryID string, page, size int) (backend.ProductPage, error)
}

type productCall struct {
	categoryID string
	page, size int
}

func (s *stubBackend) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoriesFn(ctx)
}

func (s *stubBackend) ListProducts(ctx context.Context, categoryID string, page, size int) (backend.ProductPage, error) {
	s.mu.Lock()
	s.productCalls = append(s.productCalls, productCall{categoryID, page, size})
	s.mu.Unlock()
	return s.listProductsFn(ctx, categoryID, page, size)
}

func (s *stubBackend) calls() []productCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]productCall(nil), s.productCalls...)
}

func topLevelCategories() []domain.Category {
	return []domain.Category{
		{ID: "A", Name: "Đồng hồ nam", Slug: "dong-ho-nam"},
		{ID: "B", Name: "Đồng hồ nữ", Slug: "dong-ho-nu"},
		{ID: "C", Name: "Đồng hồ đôi", Slug: "dong-ho-unisex"},
	}
}

func TestFetch_MissingSlugDegradesWithoutCall(t *testing.T) {
	stub := &stubBackend{
		categoriesFn: func(context.Context) ([]domain.Category, error) {
			// No couple match.
			return topLevelCategories()[:2], nil
		},
		listProductsFn: func(_ context.Context, categoryID string, _, _ int) (backend.ProductPage, error) {
			return backend.ProductPage{
				Products:   []any{map[string]any{"id": "p-" + categoryID}},
				TotalPages: 2,
			}, nil
		},
	}

	agg := NewAggregator(stub, newTestLogger())
	result, err := agg.Fetch(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Empty(t, result.Data[domain.SegmentCouple])
	assert.Zero(t, result.TotalPages[domain.SegmentCouple])
	assert.Len(t, result.Data[domain.SegmentMale], 1)
	assert.Len(t, result.Data[domain.SegmentFemale], 1)
	assert.Equal(t, 2, result.TotalPages[domain.SegmentMale])

	calls := stub.calls()
	require.Len(t, calls, 2, "couple segment must not trigger a network call")
	for _, call := range calls {
		assert.Equal(t, 0, call.page, "backend page index is zero-based")
		assert.Equal(t, 10, call.size)
		assert.NotEqual(t, "C", call.categoryID)
	}
}

func TestFetch_SubcategoriesIgnoredForSlugResolution(t *testing.T) {
	stub := &stubBackend{
		categoriesFn: func(context.Context) ([]domain.Category, error) {
			return []domain.Category{
				{ID: "sub", Slug: "dong-ho-nam", ParentID: "root"},
				{ID: "A", Slug: "dong-ho-nam"},
			}, nil
		},
		listProductsFn: func(_ context.Context, categoryID string, _, _ int) (backend.ProductPage, error) {
			return backend.ProductPage{Products: []any{}}, nil
		},
	}

	agg := NewAggregator(stub, newTestLogger())
	_, err := agg.Fetch(context.Background(), 1, 10)
	require.NoError(t, err)

	calls := stub.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "A", calls[0].categoryID, "only top-level categories resolve slugs")
}

func TestFetch_SegmentFailureDegradesThatSegmentOnly(t *testing.T) {
	stub := &stubBackend{
		categoriesFn: func(context.Context) ([]domain.Category, error) {
			return topLevelCategories(), nil
		},
		listProductsFn: func(_ context.Context, categoryID string, _, _ int) (backend.ProductPage, error) {
			if categoryID == "B" {
				return backend.ProductPage{}, errors.New("upstream timeout")
			}
			return backend.ProductPage{
				Products:   []any{map[string]any{"id": "p-" + categoryID}},
				TotalPages: 1,
			}, nil
		},
	}

	agg := NewAggregator(stub, newTestLogger())
	result, err := agg.Fetch(context.Background(), 1, 10)
	require.NoError(t, err, "a single segment failure must not fail the cycle")

	assert.Len(t, result.Data[domain.SegmentMale], 1)
	assert.Len(t, result.Data[domain.SegmentCouple], 1)
	assert.Empty(t, result.Data[domain.SegmentFemale])
	assert.Contains(t, result.Degraded[domain.SegmentFemale], "upstream timeout")
}

func TestFetch_NormalizesAndAttachesImage(t *testing.T) {
	stub := &stubBackend{
		categoriesFn: func(context.Context) ([]domain.Category, error) {
			return topLevelCategories(), nil
		},
		listProductsFn: func(_ context.Context, categoryID string, _, _ int) (backend.ProductPage, error) {
			return backend.ProductPage{
				Products: []any{map[string]any{
					"id":     "p-1",
					"price":  "1.500.000 VND",
					"images": []any{map[string]any{"imageUrl": "http://x/b.png"}},
				}},
				TotalPages: 1,
			}, nil
		},
	}

	agg := NewAggregator(stub, newTestLogger())
	result, err := agg.Fetch(context.Background(), 1, 10)
	require.NoError(t, err)

	p := result.Data[domain.SegmentMale][0]
	assert.Equal(t, 1.5, p.Price)
	assert.Equal(t, "http://x/b.png", p.Image)
	assert.Equal(t, "Không có tên", p.Name)
}

func TestFetch_CategoryFailureIsFatal(t *testing.T) {
	stub := &stubBackend{
		categoriesFn: func(context.Context) ([]domain.Category, error) {
			return nil, errors.New("connection refused")
		},
	}

	agg := NewAggregator(stub, newTestLogger())
	_, err := agg.Fetch(context.Background(), 1, 10)
	require.Error(t, err)
	assert.Empty(t, stub.calls())
}

func TestStore_InitialStateHasEmptySegments(t *testing.T) {
	store := NewStore(NewAggregator(&stubBackend{}, newTestLogger()), newTestLogger())

	snap := store.Snapshot()
	assert.Equal(t, DefaultPage, snap.Page)
	assert.Equal(t, DefaultLimit, snap.Limit)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	for _, seg := range domain.Segments {
		require.Contains(t, snap.Data, seg)
		assert.Empty(t, snap.Data[seg])
		assert.Zero(t, snap.TotalPages[seg])
	}
}

func TestStore_CategoryFailureKeepsDataAndClearsLoading(t *testing.T) {
	stub := &stubBackend{
		categoriesFn: func(context.Context) ([]domain.Category, error) {
			return nil, errors.New("boom")
		},
	}
	store := NewStore(NewAggregator(stub, newTestLogger()), newTestLogger())

	snap := store.Get(context.Background(), 1, 10)

	assert.NotEmpty(t, snap.Error)
	assert.False(t, snap.Loading)
	for _, seg := range domain.Segments {
		assert.Empty(t, snap.Data[seg], "failed first load keeps the initial empty data")
	}
}

func TestStore_BareFailureShowsGenericMessage(t *testing.T) {
	stub := &stubBackend{
		categoriesFn: func(context.Context) ([]domain.Category, error) {
			return nil, errors.New("dial tcp 10.0.0.1:8080: connection refused")
		},
	}
	store := NewStore(NewAggregator(stub, newTestLogger()), newTestLogger())

	snap := store.Get(context.Background(), 1, 10)
	assert.Equal(t, "Không thể tải dữ liệu sản phẩm", snap.Error,
		"transport details must not leak into the storefront error")
}

func TestStore_AppErrorMessageIsSurfaced(t *testing.T) {
	stub := &stubBackend{
		categoriesFn: func(context.Context) ([]domain.Category, error) {
			return nil, apperrors.ServiceUnavailable("catalog backend is down")
		},
	}
	store := NewStore(NewAggregator(stub, newTestLogger()), newTestLogger())

	snap := store.Get(context.Background(), 1, 10)
	assert.Equal(t, "catalog backend is down", snap.Error)
}

func TestStore_LimitChangeTriggersExactlyOneCycle(t *testing.T) {
	stub := &stubBackend{
		categoriesFn: func(context.Context) ([]domain.Category, error) {
			return topLevelCategories(), nil
		},
		listProductsFn: func(_ context.Context, categoryID string, _, _ int) (backend.ProductPage, error) {
			return backend.ProductPage{Products: []any{}, TotalPages: 1}, nil
		},
	}
	store := NewStore(NewAggregator(stub, newTestLogger()), newTestLogger())

	store.Get(context.Background(), 1, 10)
	first := len(stub.calls())
	require.Equal(t, 3, first)

	// Same inputs again: served from state, no new cycle.
	store.Get(context.Background(), 1, 10)
	assert.Len(t, stub.calls(), first)

	snap := store.Get(context.Background(), 1, 20)
	assert.Equal(t, 20, snap.Limit)

	calls := stub.calls()
	require.Len(t, calls, first+3, "limit change runs exactly one new cycle")
	for _, call := range calls[first:] {
		assert.Equal(t, 20, call.size)
	}
}

func TestStore_StaleCycleIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once

	stub := &stubBackend{
		categoriesFn: func(context.Context) ([]domain.Category, error) {
			return topLevelCategories()[:1], nil
		},
		listProductsFn: func(_ context.Context, _ string, page, size int) (backend.ProductPage, error) {
			if size == 10 {
				// First cycle stalls until the second one has finished.
				<-release
			}
			return backend.ProductPage{
				Products:   []any{map[string]any{"id": "from-size", "viewCount": float64(size)}},
				TotalPages: size,
			}, nil
		},
	}
	store := NewStore(NewAggregator(stub, newTestLogger()), newTestLogger())

	done := make(chan Snapshot, 1)
	go func() {
		done <- store.Get(context.Background(), 1, 10)
	}()

	// Wait until the slow cycle is in flight, then run a newer one.
	require.Eventually(t, func() bool {
		return len(stub.calls()) == 1
	}, time.Second, 5*time.Millisecond)

	snap := store.Get(context.Background(), 1, 20)
	assert.Equal(t, 20, snap.TotalPages[domain.SegmentMale])

	once.Do(func() { close(release) })
	<-done

	final := store.Snapshot()
	assert.Equal(t, 20, final.TotalPages[domain.SegmentMale],
		"stale cycle must not overwrite the newer result")
	assert.Equal(t, 20, final.Limit)
	assert.False(t, final.Loading)
}

func TestStore_RefreshForcesNewCycle(t *testing.T) {
	stub := &stubBackend{
		categoriesFn: func(context.Context) ([]domain.Category, error) {
			return topLevelCategories(), nil
		},
		listProductsFn: func(context.Context, string, int, int) (backend.ProductPage, error) {
			return backend.ProductPage{Products: []any{}}, nil
		},
	}
	store := NewStore(NewAggregator(stub, newTestLogger()), newTestLogger())

	store.Get(context.Background(), 1, 10)
	before := len(stub.calls())

	store.Refresh(context.Background())
	assert.Len(t, stub.calls(), before+3)
}
