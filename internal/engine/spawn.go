package engine

import (
	"log"

	"git.lost.host/meutraa/flick/internal/clock"
	"git.lost.host/meutraa/flick/internal/game"
	"git.lost.host/meutraa/flick/internal/sched"
)

// materializeNote builds the runtime note for a timeline whose spawn
// transition fired at at. The approach is anchored to at rather than to the
// moment the transition was handled, so late handling does not shift it.
func materializeNote(id game.NoteID, tl game.Timeline, at clock.Time, p game.Params) *game.ActiveNote {
	approach := tl.HitTime - tl.SpawnTime
	n := &game.ActiveNote{
		ID:               id,
		SheetID:          tl.Note.ID,
		Type:             tl.Note.Type,
		Angle:            tl.Note.Angle,
		HitTime:          tl.HitTime,
		SpawnTime:        tl.SpawnTime,
		Target:           tl.Target,
		Start:            tl.Start,
		Position:         tl.Start,
		ApproachStart:    at,
		ApproachEnd:      at.Add(approach),
		ApproachDuration: approach,
	}
	if n.IsTap() {
		// mirror of the start through the target
		n.Start2 = tl.Target.Scale(2).Sub(tl.Start)
		n.Position2 = n.Start2
	}
	if n.IsHold() {
		total := tl.Note.HoldDuration()
		n.Hold = game.HoldState{
			Trim:      1,
			Total:     total,
			Remaining: total,
			Contact:   -1,
			EndRef:    at.Add(fillDuration(n, p) + total),
		}
	}
	return n
}

func (s *Session) spawn(id game.NoteID, at clock.Time) {
	if _, exists := s.notes[id]; exists {
		return
	}
	tl, ok := s.timelines[id]
	if !ok {
		log.Println("spawn for unknown note", id)
		return
	}
	n := materializeNote(id, tl, at, s.params)
	s.notes[id] = n
	if n.IsHold() {
		s.holds.Start(id)
	} else {
		s.registry.Schedule(id, sched.Expire, at.Add(tl.ExpiryTime(s.params)-tl.SpawnTime))
	}
	s.emit(Spawned{Note: n.Snapshot()})
}

func (s *Session) clear(id game.NoteID) {
	n, ok := s.notes[id]
	if !ok || n.Cleared {
		return
	}
	n.Cleared = true
	s.emit(Cleared{ID: id})
}

func (s *Session) expire(id game.NoteID) {
	n, ok := s.notes[id]
	if !ok || n.Judged || n.IsHold() {
		return
	}
	s.judge(n, game.Miss, s.clock.Now())
	s.remove(id, Expired)
}

// judge applies a tier to the stats and reports it. The caller removes the
// note, or schedules its removal.
func (s *Session) judge(n *game.ActiveNote, tier game.Tier, at clock.Time) {
	n.Judged = true
	points := s.stats.Apply(tier)
	s.emit(Judged{
		ID:       n.ID,
		Tier:     tier,
		Points:   points,
		Position: n.Target,
		At:       at,
		Stats:    s.stats,
	})
}

// remove retires a note and cancels anything still pending for it, the
// expiry above all. Removing twice is a no-op.
func (s *Session) remove(id game.NoteID, reason Reason) {
	if _, ok := s.notes[id]; !ok {
		return
	}
	s.registry.CancelNote(id)
	s.holds.Stop(id)
	delete(s.notes, id)
	s.retired++
	s.emit(Removed{ID: id, Reason: reason})
}
