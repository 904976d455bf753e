package game

import (
	"fmt"
	"time"
)

type Tier uint8

const (
	Perfect Tier = iota
	Good
	OK
	Miss
)

var tierNames = [...]string{"PERFECT", "GOOD", "OK", "MISS"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return fmt.Sprintf("tier(%d)", uint8(t))
}

// Points awarded for the tier.
func (t Tier) Points() int {
	switch t {
	case Perfect:
		return 3
	case Good:
		return 2
	case OK:
		return 1
	}
	return 0
}

// Classify judges delta = hit - expected. Outside the good windows taps and
// flicks still score OK, while strict callers (hold presses) get a MISS.
// The two policies differ on purpose.
func (p Params) Classify(delta time.Duration, strict bool) Tier {
	switch {
	case abs(delta) <= p.Perfect:
		return Perfect
	case delta < 0 && -delta <= p.GoodBefore:
		return Good
	case delta > 0 && delta <= p.GoodAfter:
		return Good
	case strict:
		return Miss
	}
	return OK
}

// ClassifyRelease judges letting go of a hold, with toEnd the time that was
// still left on it. Letting go at or after the end is a PERFECT.
func (p Params) ClassifyRelease(toEnd time.Duration) Tier {
	switch {
	case toEnd <= 0:
		return Perfect
	case toEnd <= p.ReleaseGood:
		return Good
	case toEnd <= p.ReleaseOK:
		return OK
	}
	return Miss
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}
