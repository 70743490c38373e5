package pagination

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageSource struct {
	mu      sync.Mutex
	pages   map[int][]domain.Order
	calls   []int
	failing bool
}

func (s *pageSource) fetch(_ context.Context, limit, offset int) ([]domain.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, offset)
	if s.failing {
		return nil, 0, errors.New("checkout down")
	}
	return s.pages[offset], 0, nil
}

func orders(from, n int) []domain.Order {
	out := make([]domain.Order, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Order{ID: int64(from + i)})
	}
	return out
}

func TestPagerFetchesUntilShortPage(t *testing.T) {
	src := &pageSource{pages: map[int][]domain.Order{0: orders(0, 10), 10: orders(10, 4)}}
	store := state.NewStore[domain.Order]()
	p := NewPager("orders", 10, store, nil, nil)
	ctx := context.Background()

	assert.True(t, p.Next(ctx, src.fetch, true))
	require.NotNil(t, store.Snapshot().Pagination)
	assert.True(t, store.Snapshot().Pagination.HasMore)

	assert.False(t, p.Next(ctx, src.fetch, false))
	snap := store.Snapshot()
	assert.False(t, snap.Pagination.HasMore)
	assert.Equal(t, 10, snap.Pagination.Offset)
	assert.Len(t, snap.Items, 14)
	assert.False(t, snap.Loading)

	seen := map[int64]bool{}
	for _, o := range snap.Items {
		assert.False(t, seen[o.ID])
		seen[o.ID] = true
	}

	// exhausted: no more network calls
	assert.False(t, p.Next(ctx, src.fetch, false))
	assert.Equal(t, []int{0, 10}, src.calls)
}

func TestPagerSkipsOffsetAlreadyRequested(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int
	var mu sync.Mutex
	fetch := func(_ context.Context, limit, offset int) ([]domain.Order, int, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return orders(0, limit), 0, nil
	}

	store := state.NewStore[domain.Order]()
	p := NewPager("orders", 10, store, nil, nil)

	done := make(chan bool)
	go func() { done <- p.Next(context.Background(), fetch, false) }()
	<-started

	// same next offset while the first request is in flight
	assert.False(t, p.Next(context.Background(), fetch, false))

	close(release)
	assert.True(t, <-done)
	assert.Equal(t, 1, calls)
}

func TestPagerErrorKeepsItemsAndAllowsRetry(t *testing.T) {
	src := &pageSource{pages: map[int][]domain.Order{0: orders(0, 10), 10: orders(10, 10)}}
	store := state.NewStore[domain.Order]()
	p := NewPager("orders", 10, store, nil, nil)
	ctx := context.Background()

	require.True(t, p.Next(ctx, src.fetch, true))

	src.failing = true
	assert.False(t, p.Next(ctx, src.fetch, false))
	snap := store.Snapshot()
	assert.Equal(t, "checkout down", snap.Error)
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Items, 10)

	src.failing = false
	assert.True(t, p.Next(ctx, src.fetch, false))
	assert.Equal(t, 20, store.Len())
	assert.Equal(t, []int{0, 10, 10}, src.calls)
}

func TestPagerResetReplaces(t *testing.T) {
	src := &pageSource{pages: map[int][]domain.Order{0: orders(0, 10), 10: orders(10, 3)}}
	store := state.NewStore[domain.Order]()
	p := NewPager("orders", 10, store, nil, nil)
	ctx := context.Background()

	p.Next(ctx, src.fetch, true)
	p.Next(ctx, src.fetch, false)
	require.Equal(t, 13, store.Len())

	assert.True(t, p.Next(ctx, src.fetch, true))
	assert.Equal(t, orders(0, 10), store.Items())
}

func TestPagerDropsPageAfterReset(t *testing.T) {
	store := state.NewStore[domain.Order]()
	p := NewPager("orders", 10, store, nil, nil)

	fetch := func(_ context.Context, limit, offset int) ([]domain.Order, int, error) {
		p.Reset()
		return orders(0, limit), 0, nil
	}

	assert.False(t, p.Next(context.Background(), fetch, false))
	assert.Equal(t, 0, store.Len())
}
