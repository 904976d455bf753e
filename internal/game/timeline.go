package game

import (
	"errors"
	"fmt"
	"time"
)

var ErrMalformedNote = errors.New("malformed note")

// Timeline is the schedule of one note, derived once before play. All times
// are song time, measured from the start of the sheet.
type Timeline struct {
	Note             SheetNote
	SpawnTime        time.Duration
	HitTime          time.Duration
	ClearTime        time.Duration
	ApproachDuration time.Duration
	Start            Point
	Target           Point
}

// ExpiryTime is when an unjudged note is forced to a MISS. It never comes
// before the late window after the clear closes. Holds have their own
// timeout and ignore this.
func (t Timeline) ExpiryTime(p Params) time.Duration {
	expiry := t.SpawnTime + p.LifeDuration
	if earliest := t.ClearTime + p.GoodAfter; expiry < earliest {
		return earliest
	}
	return expiry
}

// TargetPoint scales a normalised position to the screen, clamping it first.
func (p Params) TargetPoint(x, y float64) Point {
	return Point{Clamp01(x) * p.ScreenWidth, Clamp01(y) * p.ScreenHeight}
}

// DeriveTimeline computes the schedule of n. It is a pure function of its
// arguments.
func DeriveTimeline(n SheetNote, p Params) (Timeline, error) {
	if !finite(n.X) || !finite(n.Y) || !finite(n.Angle) {
		return Timeline{}, fmt.Errorf("%w: note %v has position (%v, %v) angle %v", ErrMalformedNote, n.ID, n.X, n.Y, n.Angle)
	}
	approach := p.ApproachDuration()
	spawn := n.Time - approach
	if spawn < 0 {
		spawn = 0
	}
	target := p.TargetPoint(n.X, n.Y)
	distance := p.ApproachDistance()
	if n.Type != Normal {
		distance *= 1 + p.PopInFraction
	}
	return Timeline{
		Note:             n,
		SpawnTime:        spawn,
		HitTime:          n.Time,
		ClearTime:        n.Time,
		ApproachDuration: approach,
		Start:            target.Add(RodNormal(n.Angle).Scale(distance)),
		Target:           target,
	}, nil
}

// DeriveTimelines derives every note of the sheet, dropping the malformed
// ones. The returned errors describe what was dropped.
func DeriveTimelines(s *Sheet, p Params) ([]Timeline, []error) {
	timelines := make([]Timeline, 0, len(s.Notes))
	var dropped []error
	for _, n := range s.Notes {
		tl, err := DeriveTimeline(n, p)
		if nil != err {
			dropped = append(dropped, err)
			continue
		}
		timelines = append(timelines, tl)
	}
	return timelines, dropped
}
