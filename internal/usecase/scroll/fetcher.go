package scroll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	Threshold           = 100
	DefaultRefetchDelay = 500 * time.Millisecond
)

// Viewport is the scroll geometry of the container listing the records.
type Viewport interface {
	ContentHeight() float64
	ViewportHeight() float64
	ScrollY() float64
}

// FetchFunc loads the next page and reports whether more pages exist.
type FetchFunc func(ctx context.Context) bool

// IsScrollable reports whether the content overflows the viewport by more
// than the threshold.
func IsScrollable(v Viewport) bool {
	if v == nil {
		return false
	}
	return v.ContentHeight() > v.ViewportHeight()+Threshold
}

// IsAtBottom reports whether the scroll position is within the threshold of
// the end of the content.
func IsAtBottom(v Viewport) bool {
	if v == nil {
		return false
	}
	limit := v.ContentHeight() - Threshold
	if limit <= 0 {
		return true
	}
	return v.ScrollY()+v.ViewportHeight() >= limit
}

// Fetcher requests pages as the user scrolls. On mount it keeps fetching
// until the content overflows the viewport or there is nothing left.
type Fetcher struct {
	fetch FetchFunc
	delay time.Duration

	mu       sync.Mutex
	viewport Viewport
	mounted  atomic.Bool
}

func NewFetcher(fetch FetchFunc, viewport Viewport, delay time.Duration) *Fetcher {
	if delay <= 0 {
		delay = DefaultRefetchDelay
	}
	return &Fetcher{
		fetch:    fetch,
		delay:    delay,
		viewport: viewport,
	}
}

// SetViewport replaces the geometry used by later checks.
func (f *Fetcher) SetViewport(v Viewport) {
	f.mu.Lock()
	f.viewport = v
	f.mu.Unlock()
}

func (f *Fetcher) currentViewport() Viewport {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewport
}

// Mount runs the fill-until-scrollable loop. Only the first call per
// fetcher does any work; it returns once the content is scrollable, no
// more pages exist or ctx is done.
func (f *Fetcher) Mount(ctx context.Context) {
	if !f.mounted.CompareAndSwap(false, true) {
		return
	}

	for {
		if IsScrollable(f.currentViewport()) {
			return
		}
		if !f.fetch(ctx) {
			return
		}

		timer := time.NewTimer(f.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Mounted reports whether Mount has been called.
func (f *Fetcher) Mounted() bool {
	return f.mounted.Load()
}

// OnScroll fetches the next page when the viewport is at the bottom and
// reports whether it did.
func (f *Fetcher) OnScroll(ctx context.Context) bool {
	if !IsAtBottom(f.currentViewport()) {
		return false
	}
	f.fetch(ctx)
	return true
}
