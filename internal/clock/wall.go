package clock

import (
	"sync"
	"time"
)

// WallClock measures time since it was created using the monotonic reading
// of the system clock.
type WallClock struct {
	now    func() time.Time
	origin time.Time
}

func NewWallClock() *WallClock {
	return newWallClock(time.Now)
}

func newWallClock(now func() time.Time) *WallClock {
	return &WallClock{now: now, origin: now()}
}

func (c *WallClock) Now() Time {
	return Time{Domain: Wall, At: c.now().Sub(c.origin)}
}

func (c *WallClock) Domain() Domain {
	return Wall
}

// ManualClock only moves when told to. Safe for use from several goroutines
// so tests can advance it while a loop reads it.
type ManualClock struct {
	mu     sync.Mutex
	domain Domain
	at     time.Duration
}

func NewManualClock(domain Domain) *ManualClock {
	return &ManualClock{domain: domain}
}

func (c *ManualClock) Now() Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Time{Domain: c.domain, At: c.at}
}

func (c *ManualClock) Domain() Domain {
	return c.domain
}

// Set moves the clock to at. Moving backwards is ignored.
func (c *ManualClock) Set(at time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if at > c.at {
		c.at = at
	}
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.at += d
	}
}
