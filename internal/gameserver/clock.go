package gameserver

import (
	"sync"
	"time"
)

// Tick is the sequence number of an update clock tick, starting at 1.
type Tick uint64

// UpdateClock emits ticks to subscribers at a fixed interval. The hub uses it
// to poll its context for timed updates.
type UpdateClock struct {
	interval    time.Duration
	mu          sync.Mutex
	tick        Tick
	subscribers map[chan<- Tick]struct{}
}

// NewUpdateClock creates a stopped UpdateClock.
//
// Precondition: interval must be > 0.
// Postcondition: Returns a non-nil *UpdateClock ready to Start().
func NewUpdateClock(interval time.Duration) *UpdateClock {
	if interval <= 0 {
		panic("gameserver.NewUpdateClock: precondition violated: interval must be > 0")
	}
	return &UpdateClock{
		interval:    interval,
		subscribers: make(map[chan<- Tick]struct{}),
	}
}

// Current returns the last emitted tick, or 0 before the first.
func (c *UpdateClock) Current() Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}

// Subscribe registers ch to receive each tick. A full ch misses the tick.
//
// Precondition: ch must not be nil.
func (c *UpdateClock) Subscribe(ch chan<- Tick) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers[ch] = struct{}{}
}

// Start launches the clock goroutine and returns an idempotent stop function.
func (c *UpdateClock) Start() (stop func()) {
	done := make(chan struct{})
	var once sync.Once
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.mu.Lock()
				c.tick++
				t := c.tick
				subs := make([]chan<- Tick, 0, len(c.subscribers))
				for ch := range c.subscribers {
					subs = append(subs, ch)
				}
				c.mu.Unlock()
				for _, ch := range subs {
					select {
					case ch <- t:
					default:
					}
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		once.Do(func() { close(done) })
	}
}
