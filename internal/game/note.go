package game

import (
	"math"
	"time"

	"git.lost.host/meutraa/flick/internal/clock"
)

// NoteID identifies an ActiveNote within one session. It is not the sheet
// note id, which is kept as SheetID.
type NoteID uint64

// HoldState is only meaningful on hold notes.
type HoldState struct {
	Fill      float64 // 0 to 1 while charging
	Trim      float64 // 1 to 0 while draining
	Total     time.Duration
	Remaining time.Duration

	Started    bool
	Pressed    bool
	Released   bool
	ReachedEnd bool

	// The hold ran out while play was stopped, resume finalises it.
	CompletedWhileStopped bool

	Contact   int // the input contact holding it
	StartedAt clock.Time
	LastTick  clock.Time
	PressedAt clock.Time
	EndRef    clock.Time // when a perfect release would happen
}

// ActiveNote is the runtime projection of a SheetNote.
type ActiveNote struct {
	ID      NoteID
	SheetID int
	Type    NoteType
	Angle   float64

	HitTime   time.Duration // song time
	SpawnTime time.Duration // song time

	Target, Start, Position Point
	// Taps draw a pair of triangles, the second one approaches from the
	// opposite side.
	Start2, Position2 Point

	ApproachStart    clock.Time
	ApproachEnd      clock.Time
	ApproachDuration time.Duration

	Cleared bool
	Judged  bool

	// Set once a flick sends the note off screen.
	Flying   bool
	FlyFrom  Point
	FlyDir   Point
	FlyStart clock.Time
	FlySpeed float64

	Hold HoldState
}

func (n *ActiveNote) IsTap() bool  { return n.Type == Tap }
func (n *ActiveNote) IsHold() bool { return n.Type == Hold }

// Local expresses pt in the note's frame: along the rod and along its normal.
func (n *ActiveNote) Local(pt Point) (along, across float64) {
	d := pt.Sub(n.Target)
	return d.Dot(RodAxis(n.Angle)), d.Dot(RodNormal(n.Angle))
}

// InTapArea reports whether pt lands on either triangle of a tap note or on
// its centre.
func (n *ActiveNote) InTapArea(pt Point, p Params) bool {
	if pt.Dist(n.Target) <= p.TapCenterRadius {
		return true
	}
	along, across := n.Local(pt)
	if math.Abs(along) > p.TapFlankWidth/2 {
		return false
	}
	return math.Abs(across-p.TapFlankOffset) <= p.TapFlankHeight/2 ||
		math.Abs(across+p.TapFlankOffset) <= p.TapFlankHeight/2
}

func (n *ActiveNote) InHitRadius(pt Point, p Params) bool {
	return pt.Dist(n.Target) <= p.HitRadius
}

// Snapshot is a copy safe to hand to a renderer.
func (n *ActiveNote) Snapshot() ActiveNote {
	return *n
}
