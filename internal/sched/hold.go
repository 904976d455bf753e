package sched

import (
	"sort"

	"git.lost.host/meutraa/flick/internal/game"
)

// HoldTimers tracks which hold notes currently receive the hold tick.
type HoldTimers struct {
	active map[game.NoteID]bool
}

func NewHoldTimers() *HoldTimers {
	return &HoldTimers{active: map[game.NoteID]bool{}}
}

// Start returns false if id already has a timer.
func (h *HoldTimers) Start(id game.NoteID) bool {
	if h.active[id] {
		return false
	}
	h.active[id] = true
	return true
}

func (h *HoldTimers) Stop(id game.NoteID) {
	delete(h.active, id)
}

func (h *HoldTimers) Has(id game.NoteID) bool {
	return h.active[id]
}

// StopAll cancels every timer and returns the ids that had one.
func (h *HoldTimers) StopAll() []game.NoteID {
	ids := h.Active()
	h.active = map[game.NoteID]bool{}
	return ids
}

// Active lists the ids in ascending order so ticks are deterministic.
func (h *HoldTimers) Active() []game.NoteID {
	ids := make([]game.NoteID, 0, len(h.active))
	for id := range h.active {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (h *HoldTimers) Len() int {
	return len(h.active)
}
