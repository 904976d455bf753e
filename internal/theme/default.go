package theme

import (
	"fmt"
	"math"

	"git.lost.host/meutraa/flick/internal/game"
)

type Color struct {
	R, G, B uint8
}

func (c Color) Paint(s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

type DefaultTheme struct {
}

// RenderNote picks a rod glyph close to the rod's angle.
func (t *DefaultTheme) RenderNote(nt game.NoteType, angle float64, flying bool) string {
	color := noteColors[nt]
	if flying {
		color = flyingColor
	}
	switch nt {
	case game.Tap:
		return color.Paint(tapSym)
	case game.Hold:
		return color.Paint(holdSym)
	}
	return color.Paint(rodSyms[rodIndex(angle)])
}

func (t *DefaultTheme) RenderTarget(nt game.NoteType) string {
	return targetColor.Paint(targetSyms[nt])
}

// RenderHold shows the charge while filling and the time left once held.
func (t *DefaultTheme) RenderHold(h game.HoldState) string {
	if !h.Started {
		return noteColors[game.Hold].Paint(fmt.Sprintf("%3.0f%%", h.Fill*100))
	}
	color := noteColors[game.Hold]
	if h.Pressed {
		color = heldColor
	}
	return color.Paint(fmt.Sprintf("%4.1fs", h.Remaining.Seconds()))
}

func (t *DefaultTheme) RenderTier(tier game.Tier) string {
	color, ok := tierColors[tier]
	if !ok {
		color = tierColors[game.Miss]
	}
	return "\033[1m" + color.Paint(tier.String())
}

// rodIndex folds an angle in degrees onto the four rod glyphs.
func rodIndex(angle float64) int {
	a := math.Mod(angle, 180)
	if a < 0 {
		a += 180
	}
	return int(math.Round(a/45)) % 4
}

const (
	tapSym  = "◉"
	holdSym = "◎"
)

var (
	// Rods at 0, 45, 90 and 135 degrees. Screen y grows downward.
	rodSyms    = [...]string{"━", "╲", "┃", "╱"}
	targetSyms = map[game.NoteType]string{
		game.Normal: "·",
		game.Tap:    "○",
		game.Hold:   "□",
	}
	noteColors = map[game.NoteType]Color{
		game.Normal: {0, 118, 236}, // blue
		game.Tap:    {236, 195, 0}, // yellow
		game.Hold:   {106, 0, 236}, // purple
	}
	tierColors = map[game.Tier]Color{
		game.Perfect: {173, 236, 236}, // light blue
		game.Good:    {0, 236, 128},   // green
		game.OK:      {236, 128, 0},   // orange
		game.Miss:    {236, 30, 0},    // red
	}
	flyingColor = Color{106, 106, 106}
	heldColor   = Color{236, 0, 106}
	targetColor = Color{110, 147, 89}
)
