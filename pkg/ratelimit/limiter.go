package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for request pacing
type Limiter interface {
	// Wait blocks until the rate limit allows another request
	Wait()
	// Reset resets the rate limiter state
	Reset()
}

// Interval enforces a minimum delay between consecutive requests.
// The first call to Wait returns immediately; each subsequent call
// blocks until at least the configured interval has elapsed since the
// previous call returned.
type Interval struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex

	// Injectable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

// NewInterval creates a new fixed-interval limiter
func NewInterval(interval time.Duration) *Interval {
	return &Interval{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Wait blocks until the interval since the previous request has elapsed
func (i *Interval) Wait() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.last.IsZero() {
		if remaining := i.interval - i.now().Sub(i.last); remaining > 0 {
			i.sleep(remaining)
		}
	}
	i.last = i.now()
}

// Reset clears the last-request timestamp so the next Wait returns immediately
func (i *Interval) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.last = time.Time{}
}
