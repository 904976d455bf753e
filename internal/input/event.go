package input

import (
	"fmt"

	"git.lost.host/meutraa/flick/internal/clock"
	"git.lost.host/meutraa/flick/internal/game"
)

type Kind uint8

const (
	Press Kind = iota
	Move
	Release
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Event is one discrete input. Contact ids are stable for the lifetime of
// one physical contact. A press marked Throw only ever ends in a flick: it
// judges no tap and grabs no hold.
type Event struct {
	Kind    Kind
	Contact int
	Point   game.Point
	Time    clock.Time
	Throw   bool
}

// Control events steer the session rather than play it.
type Control uint8

const (
	TogglePause Control = iota
	Stop
)
