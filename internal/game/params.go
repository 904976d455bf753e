package game

import (
	"math"
	"time"
)

// Params are the tunables of a session. They are fixed once play starts.
type Params struct {
	ScreenWidth  float64 `yaml:"screen_width"`
	ScreenHeight float64 `yaml:"screen_height"`

	// Approach
	ApproachDistanceFraction float64 `yaml:"approach_distance_fraction"` // of the short screen side
	ApproachSpeed            float64 `yaml:"approach_speed"`             // pixels per second
	PopInFraction            float64 `yaml:"pop_in_fraction"`            // extra start distance for taps and holds

	// Holds
	HoldFillFraction    float64       `yaml:"hold_fill_fraction"`    // of the approach duration
	HoldFinishThreshold time.Duration `yaml:"hold_finish_threshold"` // remaining time counted as done
	HoldGrace           time.Duration `yaml:"hold_grace"`

	// Judgement windows
	Perfect        time.Duration `yaml:"perfect"`
	GoodBefore     time.Duration `yaml:"good_before"`
	GoodAfter      time.Duration `yaml:"good_after"`
	ReleaseGood    time.Duration `yaml:"release_good"`
	ReleaseOK      time.Duration `yaml:"release_ok"`
	EarliestAccept time.Duration `yaml:"earliest_accept"`

	// Hit areas, in pixels
	HitRadius       float64 `yaml:"hit_radius"`
	TapCenterRadius float64 `yaml:"tap_center_radius"`
	TapFlankOffset  float64 `yaml:"tap_flank_offset"`
	TapFlankWidth   float64 `yaml:"tap_flank_width"`
	TapFlankHeight  float64 `yaml:"tap_flank_height"`

	// Flicks
	FlickSpeed     float64       `yaml:"flick_speed"` // pixels per second
	FlyOutDuration time.Duration `yaml:"fly_out_duration"`
	FlyOutSpeed    float64       `yaml:"fly_out_speed"`

	LifeDuration time.Duration `yaml:"life_duration"`

	MotionRate float64 `yaml:"motion_rate"` // Hz
	HoldRate   float64 `yaml:"hold_rate"`   // Hz
}

func DefaultParams() Params {
	return Params{
		ScreenWidth:              1000,
		ScreenHeight:             800,
		ApproachDistanceFraction: 0.25,
		ApproachSpeed:            800,
		PopInFraction:            0.2,
		HoldFillFraction:         1,
		HoldFinishThreshold:      10 * time.Millisecond,
		HoldGrace:                500 * time.Millisecond,
		Perfect:                  600 * time.Millisecond,
		GoodBefore:               800 * time.Millisecond,
		GoodAfter:                1000 * time.Millisecond,
		ReleaseGood:              800 * time.Millisecond,
		ReleaseOK:                1000 * time.Millisecond,
		EarliestAccept:           1000 * time.Millisecond,
		HitRadius:                60,
		TapCenterRadius:          30,
		TapFlankOffset:           40,
		TapFlankWidth:            48,
		TapFlankHeight:           32,
		FlickSpeed:               600,
		FlyOutDuration:           350 * time.Millisecond,
		FlyOutSpeed:              2400,
		LifeDuration:             3 * time.Second,
		MotionRate:               60,
		HoldRate:                 30,
	}
}

// ApproachDistance is how far from its target a note spawns, in pixels.
func (p Params) ApproachDistance() float64 {
	return p.ApproachDistanceFraction * math.Min(p.ScreenWidth, p.ScreenHeight)
}

func (p Params) ApproachDuration() time.Duration {
	return seconds(p.ApproachDistance() / math.Max(p.ApproachSpeed, 1))
}

func (p Params) MotionPeriod() time.Duration {
	return period(p.MotionRate, 60)
}

func (p Params) HoldPeriod() time.Duration {
	return period(p.HoldRate, 30)
}

func period(hz, fallback float64) time.Duration {
	if hz <= 0 {
		hz = fallback
	}
	return seconds(1 / hz)
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
