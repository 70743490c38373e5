package pagination

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/metrics"
	"github.com/citizenwallet/brussels-pay-wallet/internal/state"
)

const DefaultLimit = 10

// PageFunc fetches one page. total is the server-reported total, 0 if unknown.
type PageFunc[T state.Identifiable] func(ctx context.Context, limit, offset int) (items []T, total int, err error)

// Pager drives offset pagination of a store: it computes the next offset,
// refuses offsets already requested, records the cursor and writes results
// to the store. Results that arrive after a Reset are dropped.
type Pager[T state.Identifiable] struct {
	mu         sync.Mutex
	resource   string
	limit      int
	cursor     Cursor
	guard      *OffsetGuard
	generation uint64

	store   *state.Store[T]
	metrics *metrics.SyncMetrics
	logger  *slog.Logger
}

func NewPager[T state.Identifiable](resource string, limit int, store *state.Store[T], m *metrics.SyncMetrics, logger *slog.Logger) *Pager[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pager[T]{
		resource: resource,
		limit:    limit,
		guard:    NewOffsetGuard(),
		store:    store,
		metrics:  m,
		logger:   logger,
	}
}

// Next fetches the next page and reports whether more pages are available.
// With reset the cursor starts over at offset 0 and the store is replaced,
// otherwise the page is appended. Fetch failures are recorded on the store
// and reported as no more data.
func (p *Pager[T]) Next(ctx context.Context, fetch PageFunc[T], reset bool) bool {
	p.mu.Lock()
	if reset {
		p.resetLocked()
	}
	if p.cursor.Exhausted(p.limit) {
		p.mu.Unlock()
		return false
	}
	offset := p.cursor.Next(p.limit)
	if !p.guard.Claim(offset) {
		p.mu.Unlock()
		p.metrics.DedupSkip(p.resource)
		return false
	}
	gen := p.generation
	limit := p.limit
	p.mu.Unlock()

	p.store.StartLoading()

	start := time.Now()
	items, total, err := fetch(ctx, limit, offset)
	p.metrics.Fetch(p.resource, len(items), time.Since(start).Seconds(), err)

	if err != nil {
		p.mu.Lock()
		stale := gen != p.generation
		if !stale {
			p.guard.Release(offset)
		}
		p.mu.Unlock()

		// cancellation and superseded requests are not failures
		if stale {
			return false
		}
		if ctx.Err() != nil {
			p.store.StopLoading()
			return false
		}
		p.logger.Error("failed to fetch page", "resource", p.resource, "offset", offset, "error", err)
		p.store.SetError(err.Error())
		return false
	}

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		p.logger.Debug("dropping stale page", "resource", p.resource, "offset", offset)
		return false
	}
	page := p.cursor.Record(offset, limit, len(items), total)
	p.mu.Unlock()

	p.store.SetPagination(page)
	if reset {
		p.store.Replace(items)
	} else {
		p.store.Append(items)
	}
	p.store.StopLoading()

	return page.HasMore
}

// Reset drops the cursor and the requested offsets. In-flight pages started
// before the reset are discarded when they complete.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *Pager[T]) resetLocked() {
	p.cursor.Reset()
	p.guard.Reset()
	p.generation++
}

func (p *Pager[T]) Limit() int {
	return p.limit
}
