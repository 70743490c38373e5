package metrics

import (
	"sync"

	"github.com/axiomhq/hyperloglog"
)

// CardCounter estimates how many distinct cards opened a session.
type CardCounter struct {
	mu     sync.Mutex
	sketch *hyperloglog.Sketch
	gauge  *SyncMetrics
}

func NewCardCounter(m *SyncMetrics) *CardCounter {
	return &CardCounter{
		sketch: hyperloglog.New14(),
		gauge:  m,
	}
}

func (c *CardCounter) Observe(serial string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sketch.Insert([]byte(serial))
	estimate := c.sketch.Estimate()
	if c.gauge != nil {
		c.gauge.UniqueCards.Set(float64(estimate))
	}
	return estimate
}

func (c *CardCounter) Estimate() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sketch.Estimate()
}
