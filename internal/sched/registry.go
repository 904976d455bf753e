package sched

import (
	"container/heap"
	"fmt"
	"sort"
	"time"

	"git.lost.host/meutraa/flick/internal/clock"
	"git.lost.host/meutraa/flick/internal/game"
)

// Kind of a scheduled transition. Transitions due at the same instant fire
// in this order.
type Kind uint8

const (
	Spawn Kind = iota
	Clear
	Expire // forced MISS for an unjudged note
	Remove // end of a fly out
)

func (k Kind) String() string {
	switch k {
	case Spawn:
		return "spawn"
	case Clear:
		return "clear"
	case Expire:
		return "expire"
	case Remove:
		return "remove"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

type key struct {
	id   game.NoteID
	kind Kind
}

// Transition is handed out by Due once it fired. It no longer exists in the
// registry at that point.
type Transition struct {
	ID   game.NoteID
	Kind Kind
	At   clock.Time

	seq   uint64
	index int
}

// PausedDelay is what was left of a transition when play stopped.
type PausedDelay struct {
	ID        game.NoteID
	Kind      Kind
	Remaining time.Duration
}

// Registry owns every outstanding transition of a session. It is not safe
// for concurrent use, the engine loop is its only user.
type Registry struct {
	domain  clock.Domain
	queue   transitionQueue
	pending map[key]*Transition
	seq     uint64
}

func NewRegistry(domain clock.Domain) *Registry {
	return &Registry{domain: domain, pending: map[key]*Transition{}}
}

func (r *Registry) Domain() clock.Domain {
	return r.domain
}

// Handle cancels the transition it was returned for. Cancelling twice, or
// after the transition fired or was replaced, does nothing.
type Handle struct {
	r   *Registry
	key key
	seq uint64
}

func (h Handle) Cancel() bool {
	if nil == h.r {
		return false
	}
	t, ok := h.r.pending[h.key]
	if !ok || t.seq != h.seq {
		return false
	}
	h.r.remove(t)
	return true
}

// Schedule arranges for kind to fire for id at the absolute time at,
// replacing anything of the same kind already pending for id.
func (r *Registry) Schedule(id game.NoteID, kind Kind, at clock.Time) Handle {
	if at.Domain != r.domain {
		panic(fmt.Errorf("%w: registry runs on %v, got %v", clock.ErrDomainMismatch, r.domain, at.Domain))
	}
	k := key{id, kind}
	if old, ok := r.pending[k]; ok {
		r.remove(old)
	}
	r.seq++
	t := &Transition{ID: id, Kind: kind, At: at, seq: r.seq}
	heap.Push(&r.queue, t)
	r.pending[k] = t
	return Handle{r: r, key: k, seq: t.seq}
}

// After schedules kind to fire delay after now.
func (r *Registry) After(id game.NoteID, kind Kind, now clock.Time, delay time.Duration) Handle {
	return r.Schedule(id, kind, now.Add(delay))
}

func (r *Registry) Cancel(id game.NoteID, kind Kind) bool {
	t, ok := r.pending[key{id, kind}]
	if !ok {
		return false
	}
	r.remove(t)
	return true
}

// CancelNote drops every transition of id.
func (r *Registry) CancelNote(id game.NoteID) {
	for kind := Spawn; kind <= Remove; kind++ {
		r.Cancel(id, kind)
	}
}

func (r *Registry) Pending(id game.NoteID, kind Kind) (clock.Time, bool) {
	t, ok := r.pending[key{id, kind}]
	if !ok {
		return clock.Time{}, false
	}
	return t.At, true
}

func (r *Registry) Len() int {
	return len(r.queue)
}

// Next is the time of the earliest pending transition.
func (r *Registry) Next() (clock.Time, bool) {
	if len(r.queue) == 0 {
		return clock.Time{}, false
	}
	return r.queue[0].At, true
}

// Due removes and returns every transition at or before now, earliest first.
func (r *Registry) Due(now clock.Time) []Transition {
	var fired []Transition
	for len(r.queue) > 0 && !r.queue[0].At.After(now) {
		t := heap.Pop(&r.queue).(*Transition)
		delete(r.pending, key{t.ID, t.Kind})
		fired = append(fired, *t)
	}
	return fired
}

// Pause cancels everything and returns the remaining delays relative to now.
// Transitions already due are reported with zero remaining.
func (r *Registry) Pause(now clock.Time) []PausedDelay {
	delays := make([]PausedDelay, 0, len(r.queue))
	for _, t := range r.queue {
		remaining := t.At.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		delays = append(delays, PausedDelay{ID: t.ID, Kind: t.Kind, Remaining: remaining})
	}
	sort.Slice(delays, func(i, j int) bool {
		if delays[i].ID != delays[j].ID {
			return delays[i].ID < delays[j].ID
		}
		return delays[i].Kind < delays[j].Kind
	})
	r.queue = nil
	r.pending = map[key]*Transition{}
	return delays
}

// Resume schedules each delay relative to now. A transition that is already
// pending is left alone rather than duplicated.
func (r *Registry) Resume(now clock.Time, delays []PausedDelay) {
	for _, d := range delays {
		if _, ok := r.pending[key{d.ID, d.Kind}]; ok {
			continue
		}
		r.After(d.ID, d.Kind, now, d.Remaining)
	}
}

func (r *Registry) remove(t *Transition) {
	heap.Remove(&r.queue, t.index)
	delete(r.pending, key{t.ID, t.Kind})
}

type transitionQueue []*Transition

func (q transitionQueue) Len() int { return len(q) }

func (q transitionQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.At.At != b.At.At {
		return a.At.At < b.At.At
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.seq < b.seq
}

func (q transitionQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *transitionQueue) Push(x interface{}) {
	t := x.(*Transition)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *transitionQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
