package engine

import (
	"time"

	"git.lost.host/meutraa/flick/internal/clock"
	"git.lost.host/meutraa/flick/internal/game"
)

// progress is how far along its approach n is at now, from 0 to 1.
func progress(n *game.ActiveNote, now clock.Time) float64 {
	if n.ApproachDuration <= 0 {
		if now.Before(n.ApproachStart) {
			return 0
		}
		return 1
	}
	return game.Clamp01(float64(now.Sub(n.ApproachStart)) / float64(n.ApproachDuration))
}

// fillDuration is how long a hold takes to charge after spawning.
func fillDuration(n *game.ActiveNote, p game.Params) time.Duration {
	return time.Duration(float64(n.ApproachDuration) * p.HoldFillFraction)
}

// integrate places n for the instant now. It only reads the reference
// timestamps, never earlier results.
func integrate(n *game.ActiveNote, now clock.Time) {
	if n.Flying {
		t := now.Sub(n.FlyStart).Seconds()
		if t < 0 {
			t = 0
		}
		n.Position = n.FlyFrom.Add(n.FlyDir.Scale(n.FlySpeed * t))
		if n.IsTap() {
			n.Position2 = n.Position
		}
		return
	}
	f := progress(n, now)
	n.Position = n.Start.Lerp(n.Target, f)
	if n.IsTap() {
		n.Position2 = n.Start2.Lerp(n.Target, f)
	}
}

// Tick is the motion step, run at the motion rate.
func (s *Session) Tick() {
	if s.state != StatePlaying {
		return
	}
	now := s.clock.Now()
	for _, n := range s.notes {
		integrate(n, now)
	}
}

// HoldTick is the hold step, run at the hold rate for every hold note with a
// running timer.
func (s *Session) HoldTick() {
	if s.state != StatePlaying {
		return
	}
	now := s.clock.Now()
	for _, id := range s.holds.Active() {
		n, ok := s.notes[id]
		if !ok {
			s.holds.Stop(id)
			continue
		}
		s.integrateHold(n, now)
	}
	s.checkFinished()
}

// integrateHold advances fill, start and drain of a hold note.
func (s *Session) integrateHold(n *game.ActiveNote, now clock.Time) {
	h := &n.Hold
	if h.Released || n.Judged {
		return
	}
	fill := fillDuration(n, s.params)

	if !h.Started {
		if fill <= 0 {
			h.Fill = 1
		} else {
			h.Fill = game.Clamp01(float64(now.Sub(n.ApproachStart)) / float64(fill))
		}
		if h.Fill < 1 {
			return
		}
		h.Started = true
		h.StartedAt = n.ApproachStart.Add(fill)
		h.EndRef = h.StartedAt.Add(h.Total)
		h.LastTick = h.StartedAt
		if h.Pressed {
			h.PressedAt = h.StartedAt
		} else if c, ok := s.contactNear(n); ok {
			h.Pressed = true
			h.PressedAt = h.StartedAt
			h.Contact = c
		}
	}

	if h.Pressed {
		s.drain(n, now)
		return
	}
	if now.Sub(h.EndRef) > s.params.HoldGrace {
		s.judge(n, game.Miss, now)
		s.remove(n.ID, Dropped)
	}
}

func (s *Session) drain(n *game.ActiveNote, now clock.Time) {
	h := &n.Hold
	if dt := now.Sub(h.LastTick); dt > 0 {
		h.Remaining -= dt
	}
	if h.Remaining < 0 {
		h.Remaining = 0
	}
	if h.Total > 0 {
		h.Trim = float64(h.Remaining) / float64(h.Total)
	} else {
		h.Trim = 0
	}
	if now.After(h.LastTick) {
		h.LastTick = now
	}
	if h.Remaining > s.params.HoldFinishThreshold {
		return
	}
	h.ReachedEnd = true
	if s.state == StatePaused {
		h.CompletedWhileStopped = true
		return
	}
	s.complete(n, now)
}

func (s *Session) complete(n *game.ActiveNote, now clock.Time) {
	n.Hold.Released = true
	n.Hold.Pressed = false
	s.judge(n, game.Perfect, now)
	s.remove(n.ID, Completed)
}

// contactNear finds a contact already down within the hit radius of n.
func (s *Session) contactNear(n *game.ActiveNote) (int, bool) {
	for _, c := range s.tracker.Down() {
		if !c.Throw && n.InHitRadius(c.Last, s.params) {
			return c.ID, true
		}
	}
	return 0, false
}
