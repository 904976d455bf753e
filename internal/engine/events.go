package engine

import (
	"git.lost.host/meutraa/flick/internal/clock"
	"git.lost.host/meutraa/flick/internal/game"
	"git.lost.host/meutraa/flick/internal/score"
)

// Event is anything the session reports to its observer.
type Event interface {
	eventMarker()
}

type Started struct {
	At    clock.Time
	Title string
	Notes int
}

type Paused struct {
	At clock.Time
}

type Resumed struct {
	At clock.Time
}

// Finished is emitted once, when every note is retired or the session was
// stopped.
type Finished struct {
	At      clock.Time
	Stats   score.Stats
	Stopped bool
}

type Spawned struct {
	Note game.ActiveNote
}

type Cleared struct {
	ID game.NoteID
}

type Reason uint8

const (
	Hit       Reason = iota // tap judged
	Expired                 // lifetime ran out
	Completed               // hold drained while pressed
	Released                // hold let go
	Dropped                 // hold never pressed, or pressed far too late
	FlownOut                // flick animation ended
)

var reasonNames = [...]string{"hit", "expired", "completed", "released", "dropped", "flown out"}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

type Removed struct {
	ID     game.NoteID
	Reason Reason
}

// Judged carries the stats as they were right after the judgement.
type Judged struct {
	ID       game.NoteID
	Tier     game.Tier
	Points   int
	Position game.Point
	At       clock.Time
	Stats    score.Stats
}

func (Started) eventMarker()  {}
func (Paused) eventMarker()   {}
func (Resumed) eventMarker()  {}
func (Finished) eventMarker() {}
func (Spawned) eventMarker()  {}
func (Cleared) eventMarker()  {}
func (Removed) eventMarker()  {}
func (Judged) eventMarker()   {}
