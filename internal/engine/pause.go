package engine

import (
	"fmt"
	"log"

	"git.lost.host/meutraa/flick/internal/game"
	"git.lost.host/meutraa/flick/internal/input"
	"git.lost.host/meutraa/flick/internal/sched"
)

// Pause settles every hold up to now, then cancels every transition and
// hold timer, remembering how long each transition still had to go.
func (s *Session) Pause() {
	if s.state != StatePlaying {
		return
	}
	now := s.clock.Now()
	s.state = StatePaused
	s.pausedAt = now

	for _, id := range s.holds.Active() {
		if n, ok := s.notes[id]; ok && n.Hold.Started && n.Hold.Pressed {
			s.drain(n, now)
		}
	}
	s.paused = s.registry.Pause(now)
	s.heldOver = s.holds.StopAll()
	s.emit(Paused{At: now})
}

// Resume reschedules what Pause cancelled relative to the current time and
// shifts every stored timestamp by the length of the pause, so nothing moves
// while paused. Scores are left untouched.
func (s *Session) Resume() {
	if s.state != StatePaused {
		return
	}
	now := s.clock.Now()
	shift := now.Sub(s.pausedAt)

	s.epoch = s.epoch.Add(shift)
	for _, n := range s.notes {
		n.ApproachStart = n.ApproachStart.Add(shift)
		n.ApproachEnd = n.ApproachEnd.Add(shift)
		n.FlyStart = n.FlyStart.Add(shift)
		h := &n.Hold
		h.StartedAt = h.StartedAt.Add(shift)
		h.LastTick = h.LastTick.Add(shift)
		h.PressedAt = h.PressedAt.Add(shift)
		h.EndRef = h.EndRef.Add(shift)
	}
	s.tracker.Shift(shift)

	delays := make([]sched.PausedDelay, 0, len(s.paused))
	for _, d := range s.paused {
		if _, ok := s.timelines[d.ID]; !ok {
			err := fmt.Errorf("no timeline for paused note %v", d.ID)
			log.Println("skipping:", err)
			s.diagnostics = append(s.diagnostics, err)
			continue
		}
		delays = append(delays, d)
	}
	s.registry.Resume(now, delays)
	s.paused = nil

	s.state = StatePlaying
	// holds were drained up to the pause, so these releases land there
	for _, c := range s.releasedWhilePaused {
		s.releaseHold(input.Event{Kind: input.Release, Contact: c, Time: now})
	}
	s.releasedWhilePaused = nil

	for _, id := range s.heldOver {
		n, ok := s.notes[id]
		if !ok || n.Hold.Released {
			continue
		}
		if n.Hold.CompletedWhileStopped {
			s.complete(n, now)
			continue
		}
		s.holds.Start(id)
	}
	s.heldOver = nil

	s.emit(Resumed{At: now})
	s.checkFinished()
}

// PausedDelays reports the outstanding delays captured by the last pause.
func (s *Session) PausedDelays() []sched.PausedDelay {
	out := make([]sched.PausedDelay, len(s.paused))
	copy(out, s.paused)
	return out
}

// HoldTimers lists the hold notes currently ticking.
func (s *Session) HoldTimers() []game.NoteID {
	return s.holds.Active()
}
