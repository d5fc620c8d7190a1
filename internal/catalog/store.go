package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/domain"
	apperrors "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/errors"
)

// errLoadFailed is the user-facing fallback shown when a cycle fails.
const errLoadFailed = "Không thể tải dữ liệu sản phẩm"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Snapshot is an immutable view of the store handed to readers.
type Snapshot struct {
	Page       int                                 `json:"page"`
	Limit      int                                 `json:"limit"`
	Loading    bool                                `json:"loading"`
	Error      string                              `json:"error,omitempty"`
	Data       map[domain.Segment][]domain.Product `json:"data"`
	TotalPages map[domain.Segment]int              `json:"totalPages"`
	Degraded   map[domain.Segment]string           `json:"degraded,omitempty"`
}

// Store owns the home catalog state. A change to (page, limit) starts a
// new aggregation cycle; a failed cycle records an error and freezes the
// previous data; a cycle that finishes after a newer one has started is
// discarded by sequence-number fencing, so stale responses never
// overwrite fresher state.
type Store struct {
	agg    *Aggregator
	logger *slog.Logger

	mu         sync.Mutex
	seq        uint64
	page       int
	limit      int
	loaded     bool
	loading    bool
	errMsg     string
	data       map[domain.Segment][]domain.Product
	totalPages map[domain.Segment]int
	degraded   map[domain.Segment]string
}

func NewStore(agg *Aggregator, logger *slog.Logger) *Store {
	initial := emptyResult()
	return &Store{
		agg:        agg,
		logger:     logger,
		page:       DefaultPage,
		limit:      DefaultLimit,
		data:       initial.Data,
		totalPages: initial.TotalPages,
	}
}

// Get serves the catalog for (page, limit), running a fresh aggregation
// cycle when either value differs from the current state or nothing has
// been loaded yet. The cycle runs synchronously on the caller's context;
// concurrent callers with the current (page, limit) are served the
// existing snapshot without triggering another cycle.
func (s *Store) Get(ctx context.Context, page, limit int) Snapshot {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	s.mu.Lock()
	changed := page != s.page || limit != s.limit
	if changed || (!s.loaded && !s.loading) {
		s.page = page
		s.limit = limit
		s.loading = true
		s.errMsg = ""
		s.seq++
		seq := s.seq
		s.mu.Unlock()

		s.runCycle(ctx, seq, page, limit)
	} else {
		s.mu.Unlock()
	}

	return s.Snapshot()
}

// Refresh forces a new cycle at the current (page, limit).
func (s *Store) Refresh(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.loading = true
	s.seq++
	seq := s.seq
	page, limit := s.page, s.limit
	s.mu.Unlock()

	s.runCycle(ctx, seq, page, limit)
	return s.Snapshot()
}

func (s *Store) runCycle(ctx context.Context, seq uint64, page, limit int) {
	result, err := s.agg.Fetch(ctx, page, limit)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		// A newer cycle started while this one was in flight. Its
		// results are stale; the newer cycle owns the state now.
		s.logger.Debug("discarding stale aggregation cycle", "seq", seq, "latest", s.seq)
		return
	}

	s.loading = false
	if err != nil {
		s.errMsg = userMessage(err)
		s.logger.Error("catalog aggregation cycle failed", "page", page, "limit", limit, "error", err)
		return
	}

	s.loaded = true
	s.errMsg = ""
	s.data = result.Data
	s.totalPages = result.TotalPages
	s.degraded = result.Degraded
}

// userMessage picks the error text surfaced to the storefront. An
// application error already carries a presentable Message; anything
// else (a bare transport failure, a context cancellation) is collapsed
// into the generic load-failed text rather than leaking wire details.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return errLoadFailed
}

// Snapshot returns a copy of the current state. Product slices are
// shared with the store but never mutated after publication.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Page:       s.page,
		Limit:      s.limit,
		Loading:    s.loading,
		Error:      s.errMsg,
		Data:       make(map[domain.Segment][]domain.Product, len(s.data)),
		TotalPages: make(map[domain.Segment]int, len(s.totalPages)),
	}
	for seg, products := range s.data {
		snap.Data[seg] = products
	}
	for seg, pages := range s.totalPages {
		snap.TotalPages[seg] = pages
	}
	if len(s.degraded) > 0 {
		snap.Degraded = make(map[domain.Segment]string, len(s.degraded))
		for seg, reason := range s.degraded {
			snap.Degraded[seg] = reason
		}
	}
	return snap
}
