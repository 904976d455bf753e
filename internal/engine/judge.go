package engine

import (
	"math"
	"time"

	"git.lost.host/meutraa/flick/internal/game"
	"git.lost.host/meutraa/flick/internal/input"
	"git.lost.host/meutraa/flick/internal/sched"
)

// Handle dispatches one input event.
func (s *Session) Handle(e input.Event) {
	switch e.Kind {
	case input.Press:
		s.Press(e)
	case input.Move:
		s.tracker.Move(e)
	case input.Release:
		s.Release(e)
	}
}

// Press judges a tap, or grabs a hold when no tap is under the finger.
func (s *Session) Press(e input.Event) {
	s.tracker.Press(e)
	if s.state == StatePaused {
		s.unrelease(e.Contact)
	}
	if s.state != StatePlaying || e.Throw {
		return
	}
	if s.tap(e) {
		return
	}
	s.pressHold(e)
}

// Release lets go of any hold under this contact and, when the contact was
// thrown rather than lifted, tries a flick. A release while paused is held
// back and applied on resume.
func (s *Session) Release(e input.Event) {
	f, thrown := s.tracker.Release(e)
	if s.state == StatePaused {
		s.releasedWhilePaused = append(s.releasedWhilePaused, e.Contact)
		return
	}
	if s.state != StatePlaying {
		return
	}
	if s.releaseHold(e) {
		return
	}
	if thrown {
		s.FlickNearest(f)
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func (s *Session) tap(e input.Event) bool {
	elapsed := s.Elapsed(e.Time)

	var best *game.ActiveNote
	distance := time.Duration(math.MaxInt64)
	for _, n := range s.notes {
		if !n.IsTap() || n.Judged {
			continue
		}
		if elapsed < n.HitTime-s.params.EarliestAccept {
			continue
		}
		if !n.InTapArea(e.Point, s.params) {
			continue
		}
		d := absDuration(elapsed - n.HitTime)
		if nil == best || d < distance || (d == distance && n.ID < best.ID) {
			best, distance = n, d
		}
	}
	if nil == best {
		return false
	}

	s.judge(best, s.params.Classify(elapsed-best.HitTime, false), e.Time)
	s.remove(best.ID, Hit)
	return true
}

func (s *Session) pressHold(e input.Event) bool {
	var best *game.ActiveNote
	distance := math.Inf(1)
	for _, n := range s.notes {
		if !n.IsHold() || n.Judged || n.Hold.Pressed || n.Hold.Released {
			continue
		}
		d := e.Point.Dist(n.Target)
		if d > s.params.HitRadius {
			continue
		}
		if nil == best || d < distance || (d == distance && n.ID < best.ID) {
			best, distance = n, d
		}
	}
	if nil == best {
		return false
	}

	h := &best.Hold
	if !h.Started {
		// judged once the hold starts draining
		h.Pressed = true
		h.PressedAt = e.Time
		h.Contact = e.Contact
		return true
	}

	tier := s.params.Classify(e.Time.Sub(h.StartedAt), true)
	if tier == game.Miss {
		s.judge(best, tier, e.Time)
		s.remove(best.ID, Dropped)
		return true
	}
	h.Pressed = true
	h.PressedAt = e.Time
	h.Contact = e.Contact
	h.LastTick = e.Time
	return true
}

func (s *Session) unrelease(contact int) {
	kept := s.releasedWhilePaused[:0]
	for _, c := range s.releasedWhilePaused {
		if c != contact {
			kept = append(kept, c)
		}
	}
	s.releasedWhilePaused = kept
}

func (s *Session) releaseHold(e input.Event) bool {
	released := false
	for _, n := range s.notes {
		h := &n.Hold
		if !n.IsHold() || n.Judged || !h.Pressed || h.Released || h.Contact != e.Contact {
			continue
		}
		if h.Started {
			// account for the drain since the last hold tick
			s.drain(n, e.Time)
			if n.Judged {
				released = true
				continue
			}
		}
		h.Pressed = false
		h.Released = true
		s.judge(n, s.params.ClassifyRelease(h.EndRef.Sub(e.Time)), e.Time)
		s.remove(n.ID, Released)
		released = true
	}
	return released
}

// Flick throws note id in the direction of f. Only plain rod notes can be
// flicked. It reports whether the note was judged.
func (s *Session) Flick(id game.NoteID, f input.Flick) bool {
	if s.state != StatePlaying {
		return false
	}
	n, ok := s.notes[id]
	if !ok || n.Type != game.Normal || n.Judged || n.Flying {
		return false
	}

	normal := game.RodNormal(n.Angle)
	dir := normal
	if normal.Scale(-1).Dot(f.Vector) > normal.Dot(f.Vector) {
		dir = normal.Scale(-1)
	}

	s.judge(n, s.params.Classify(s.Elapsed(f.At)-n.HitTime, false), f.At)
	s.registry.Cancel(id, sched.Expire)
	s.registry.Cancel(id, sched.Clear)

	now := s.clock.Now()
	n.Flying = true
	n.FlyFrom = n.Position
	n.FlyDir = dir
	n.FlyStart = now
	n.FlySpeed = s.params.FlyOutSpeed
	s.registry.After(id, sched.Remove, now, s.params.FlyOutDuration)
	return true
}

// FlickNearest flicks the plain note closest to where the drag started, if
// one is within the hit radius.
func (s *Session) FlickNearest(f input.Flick) bool {
	var best *game.ActiveNote
	distance := math.Inf(1)
	for _, n := range s.notes {
		if n.Type != game.Normal || n.Judged || n.Flying {
			continue
		}
		d := f.From.Dist(n.Position)
		if d > s.params.HitRadius {
			continue
		}
		if nil == best || d < distance || (d == distance && n.ID < best.ID) {
			best, distance = n, d
		}
	}
	if nil == best {
		return false
	}
	return s.Flick(best.ID, f)
}
