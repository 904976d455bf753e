package testdata

import (
	_ "embed"
	"time"

	"git.lost.host/meutraa/flick/internal/game"
)

// SheetJSON is GetSheet in the JSON sheet format.
//go:embed sheet.json
var SheetJSON []byte

// ChartSM is a two measure StepMania chart at 120 bpm.
//go:embed chart.sm
var ChartSM []byte

func sec(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// GetSheet is a short sheet with every kind of note, placed on the keyboard
// grid so it can be played from a terminal.
func GetSheet() *game.Sheet {
	return &game.Sheet{
		Title: "Warm up",
		BPM:   120,
		Notes: []game.SheetNote{
			{ID: 1, Time: sec(2), X: 0.5, Y: 0.5, Type: game.Normal},
			{ID: 2, Time: sec(3), X: 0.25, Y: 0.25, Type: game.Tap},
			{ID: 3, Time: sec(4), X: 0.75, Y: 0.25, Type: game.Tap},
			{ID: 4, Time: sec(5), X: 0.5, Y: 0.75, Type: game.Hold, HoldEnd: sec(6.5)},
			{ID: 5, Time: sec(7), Angle: 90, X: 0.25, Y: 0.75, Type: game.Normal},
			{ID: 6, Time: sec(7.5), Angle: 45, X: 0.75, Y: 0.75, Type: game.Normal},
			{ID: 7, Time: sec(9), X: 0.5, Y: 0.5, Type: game.Tap},
		},
	}
}
