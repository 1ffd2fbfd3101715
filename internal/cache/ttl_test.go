package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(ttl time.Duration, maxEntries int) (*TTL[string, int], *testClock) {
	clock := &testClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	return New[string, int](ttl, maxEntries, clock.Now), clock
}

func TestGetReturnsStoredValue(t *testing.T) {
	c, _ := newTestCache(time.Minute, 10)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestEntriesExpire(t *testing.T) {
	c, clock := newTestCache(time.Minute, 10)

	c.Set("a", 1)
	clock.Advance(59 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	clock.Advance(2 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)

	// Expired entries are swept on read.
	assert.Equal(t, 0, c.Len())
}

func TestSetRefreshesExpiry(t *testing.T) {
	c, clock := newTestCache(time.Minute, 10)

	c.Set("a", 1)
	clock.Advance(45 * time.Second)
	c.Set("a", 2)
	clock.Advance(45 * time.Second)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestEvictsOldestAtCapacity(t *testing.T) {
	c, clock := newTestCache(time.Minute, 2)

	c.Set("a", 1)
	clock.Advance(time.Second)
	c.Set("b", 2)
	clock.Advance(time.Second)
	c.Set("c", 3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestEvictsExpiredBeforeLive(t *testing.T) {
	c, clock := newTestCache(30*time.Second, 2)

	c.Set("stale", 1)
	clock.Advance(31 * time.Second)
	c.Set("live", 2)
	c.Set("newer", 3)

	// The expired entry is the one sacrificed, not the oldest live one.
	_, ok := c.Get("stale")
	assert.False(t, ok)
	_, ok = c.Get("live")
	assert.True(t, ok)
	_, ok = c.Get("newer")
	assert.True(t, ok)
}

func TestOverwriteAtCapacityDoesNotEvict(t *testing.T) {
	c, _ := newTestCache(time.Minute, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	assert.Equal(t, 2, c.Len())
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(time.Minute, 10)

	c.Set("a", 1)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}
