package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorFullPageHasMore(t *testing.T) {
	var c Cursor
	assert.Equal(t, 0, c.Next(10))
	assert.False(t, c.Exhausted(10))
	assert.Nil(t, c.Page())

	page := c.Record(0, 10, 10, 0)
	assert.True(t, page.HasMore)
	assert.Equal(t, 10, page.Total)
	assert.Equal(t, 10, c.Next(10))
	assert.False(t, c.Exhausted(10))

	page = c.Record(10, 10, 4, 0)
	assert.False(t, page.HasMore)
	assert.Equal(t, 4, page.Total)
	assert.True(t, c.Exhausted(10))
}

func TestCursorKeepsServerTotal(t *testing.T) {
	var c Cursor
	page := c.Record(0, 10, 10, 42)
	assert.Equal(t, 42, page.Total)
	assert.True(t, page.HasMore)
}

func TestCursorReset(t *testing.T) {
	var c Cursor
	c.Record(20, 10, 3, 0)
	c.Reset()
	assert.Nil(t, c.Page())
	assert.Equal(t, 0, c.Next(10))
	assert.False(t, c.Exhausted(10))
}

func TestOffsetGuard(t *testing.T) {
	g := NewOffsetGuard()
	assert.True(t, g.Claim(0))
	assert.False(t, g.Claim(0))
	assert.True(t, g.Claim(10))

	g.Release(10)
	assert.True(t, g.Claim(10))

	g.Reset()
	assert.True(t, g.Claim(0))
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func TestTTLGateWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	g := NewTTLGate(DefaultReloadInterval, clock.Now)
	key := CacheKey("0xabc", "0xtoken")
	require.Equal(t, "0xabc-0xtoken", key)

	assert.True(t, g.ShouldLoad(key, false))
	clock.t = clock.t.Add(29 * time.Second)
	assert.False(t, g.ShouldLoad(key, false))

	clock.t = clock.t.Add(2 * time.Second)
	assert.True(t, g.ShouldLoad(key, false))

	// other keys are independent
	assert.True(t, g.ShouldLoad(CacheKey("0xdef", "0xtoken"), false))
}

func TestTTLGateForceReset(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	g := NewTTLGate(0, clock.Now)

	assert.True(t, g.ShouldLoad("k", false))
	assert.True(t, g.ShouldLoad("k", true))
	assert.False(t, g.ShouldLoad("k", false))

	g.Reset()
	assert.True(t, g.ShouldLoad("k", false))
}
