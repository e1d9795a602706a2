package ratelimiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newLimiter(rate, capacity float64, ttl time.Duration) (*Limiter, *clock) {
	c := &clock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(rate, capacity, ttl)
	l.now = c.Now
	return l, c
}

func TestAllow(t *testing.T) {
	t.Run("burst up to capacity", func(t *testing.T) {
		l, _ := newLimiter(1, 3, time.Hour)
		assert.True(t, l.Allow("a"))
		assert.True(t, l.Allow("a"))
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		l, _ := newLimiter(1, 1, time.Hour)
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
		assert.True(t, l.Allow("b"))
	})

	t.Run("refills over time without exceeding capacity", func(t *testing.T) {
		l, c := newLimiter(1, 2, time.Hour)
		assert.True(t, l.Allow("a"))
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))

		c.Advance(10 * time.Second)
		assert.True(t, l.Allow("a"))
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
	})

	t.Run("concurrent callers never exceed the burst", func(t *testing.T) {
		l, _ := newLimiter(0.001, 10, time.Hour)
		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if l.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 10, allowed)
	})
}

func TestSweep(t *testing.T) {
	l, c := newLimiter(1, 1, time.Minute)
	l.Allow("old")
	c.Advance(2 * time.Minute)
	l.Allow("fresh")

	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Len())
	assert.True(t, l.Allow("old"), "a forgotten key starts with a full bucket")
}
