package pagination

import (
	"sync"
	"time"
)

const DefaultReloadInterval = 30 * time.Second

// TTLGate throttles reloads per key within a fixed window.
type TTLGate struct {
	mu         sync.Mutex
	window     time.Duration
	now        func() time.Time
	lastLoaded map[string]time.Time
}

func NewTTLGate(window time.Duration, now func() time.Time) *TTLGate {
	if window <= 0 {
		window = DefaultReloadInterval
	}
	if now == nil {
		now = time.Now
	}
	return &TTLGate{
		window:     window,
		now:        now,
		lastLoaded: make(map[string]time.Time),
	}
}

// ShouldLoad reports whether key may be loaded now and, if so, stamps it.
// forceReset clears the stamp first so the load always proceeds.
func (g *TTLGate) ShouldLoad(key string, forceReset bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if forceReset {
		delete(g.lastLoaded, key)
	}

	now := g.now()
	if last, ok := g.lastLoaded[key]; ok && now.Sub(last) < g.window {
		return false
	}
	g.lastLoaded[key] = now
	return true
}

func (g *TTLGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastLoaded = make(map[string]time.Time)
}

func CacheKey(account, token string) string {
	return account + "-" + token
}
