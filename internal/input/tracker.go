package input

import (
	"sort"
	"time"

	"git.lost.host/meutraa/flick/internal/clock"
	"git.lost.host/meutraa/flick/internal/game"
)

// Contact is a finger, or whatever stands in for one, currently down.
type Contact struct {
	ID      int
	Start   game.Point
	Last    game.Point
	StartAt clock.Time
	LastAt  clock.Time
	Throw   bool
}

// Flick is a drag released fast enough to count as a throw.
type Flick struct {
	Contact int
	From    game.Point
	To      game.Point
	Vector  game.Point // To - From
	Speed   float64    // pixels per second
	At      clock.Time
}

// Tracker follows contacts from press to release and recognises flicks.
type Tracker struct {
	minSpeed float64
	contacts map[int]*Contact
}

func NewTracker(minSpeed float64) *Tracker {
	return &Tracker{minSpeed: minSpeed, contacts: map[int]*Contact{}}
}

func (t *Tracker) Press(e Event) {
	t.contacts[e.Contact] = &Contact{
		ID:      e.Contact,
		Start:   e.Point,
		Last:    e.Point,
		StartAt: e.Time,
		LastAt:  e.Time,
		Throw:   e.Throw,
	}
}

// Move updates a contact. Moves for unknown contacts start one, since the
// press may have been lost to a pause.
func (t *Tracker) Move(e Event) {
	c, ok := t.contacts[e.Contact]
	if !ok {
		t.Press(e)
		return
	}
	c.Last = e.Point
	c.LastAt = e.Time
}

// Release ends a contact, reporting a flick if it was one.
func (t *Tracker) Release(e Event) (Flick, bool) {
	c, ok := t.contacts[e.Contact]
	if !ok {
		return Flick{}, false
	}
	delete(t.contacts, e.Contact)
	c.Last = e.Point
	c.LastAt = e.Time

	v := c.Last.Sub(c.Start)
	dt := c.LastAt.Sub(c.StartAt)
	if dt < time.Millisecond {
		dt = time.Millisecond
	}
	speed := v.Len() / dt.Seconds()
	if v.Len() == 0 || speed < t.minSpeed {
		return Flick{}, false
	}
	return Flick{
		Contact: c.ID,
		From:    c.Start,
		To:      c.Last,
		Vector:  v,
		Speed:   speed,
		At:      e.Time,
	}, true
}

// Down lists contacts currently pressed, by id.
func (t *Tracker) Down() []Contact {
	out := make([]Contact, 0, len(t.contacts))
	for _, c := range t.contacts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Shift moves every stored timestamp forward by d, used when play resumes
// after the clock kept running.
func (t *Tracker) Shift(d time.Duration) {
	for _, c := range t.contacts {
		c.StartAt = c.StartAt.Add(d)
		c.LastAt = c.LastAt.Add(d)
	}
}
