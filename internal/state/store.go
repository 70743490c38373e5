package state

import (
	"sync"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
)

// Identifiable is a record that can be merged by id.
type Identifiable interface {
	Key() string
}

// Snapshot is a consistent copy of a store.
type Snapshot[T Identifiable] struct {
	Items      []T                `json:"items"`
	Loading    bool               `json:"loading"`
	Error      string             `json:"error,omitempty"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

// Store holds the canonical in-memory collection of a view. Each store is
// owned by one session and is never shared between sessions.
type Store[T Identifiable] struct {
	mu         sync.RWMutex
	items      []T
	loading    bool
	err        string
	pagination *domain.Pagination

	subMu       sync.Mutex
	subscribers map[int]chan struct{}
	nextSub     int
}

func NewStore[T Identifiable]() *Store[T] {
	return &Store[T]{subscribers: make(map[int]chan struct{})}
}

func (s *Store[T]) StartLoading() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) StopLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Replace overwrites the collection with items.
func (s *Store[T]) Replace(items []T) {
	s.mu.Lock()
	s.items = append([]T(nil), items...)
	s.mu.Unlock()
	s.notify()
}

// Append concatenates items at the tail. It does not deduplicate.
func (s *Store[T]) Append(items []T) {
	s.mu.Lock()
	s.items = append(s.items, items...)
	s.mu.Unlock()
	s.notify()
}

// Upsert merges items by id: unknown ids are prepended in input order,
// known ids are replaced at their current position.
func (s *Store[T]) Upsert(items []T) {
	if len(items) == 0 {
		return
	}

	s.mu.Lock()
	s.items = merge(s.items, items)
	s.mu.Unlock()
	s.notify()
}

func merge[T Identifiable](existing, incoming []T) []T {
	index := make(map[string]int, len(existing))
	for i, item := range existing {
		index[item.Key()] = i
	}

	// the last incoming version of an id wins
	updates := make(map[string]T, len(incoming))
	freshIndex := make(map[string]int)
	var fresh []T
	for _, item := range incoming {
		key := item.Key()
		if _, ok := index[key]; ok {
			updates[key] = item
			continue
		}
		if i, ok := freshIndex[key]; ok {
			fresh[i] = item
			continue
		}
		freshIndex[key] = len(fresh)
		fresh = append(fresh, item)
	}

	merged := make([]T, 0, len(fresh)+len(existing))
	merged = append(merged, fresh...)
	for _, item := range existing {
		if updated, ok := updates[item.Key()]; ok {
			merged = append(merged, updated)
			continue
		}
		merged = append(merged, item)
	}
	return merged
}

// SetError records a fetch failure and clears the loading flag. The
// collection is left untouched.
func (s *Store[T]) SetError(message string) {
	s.mu.Lock()
	s.err = message
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) SetPagination(p domain.Pagination) {
	s.mu.Lock()
	s.pagination = &p
	s.mu.Unlock()
	s.notify()
}

// Clear resets the store to its initial state.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	s.items = nil
	s.loading = false
	s.err = ""
	s.pagination = nil
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot[T]{
		Items:   append([]T{}, s.items...),
		Loading: s.loading,
		Error:   s.err,
	}
	if s.pagination != nil {
		p := *s.pagination
		snap.Pagination = &p
	}
	return snap
}

// Subscribe returns a channel that receives a signal after every change.
// Signals are coalesced: a slow reader sees at least one pending signal.
// The returned func unsubscribes and closes the channel.
func (s *Store[T]) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store[T]) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
