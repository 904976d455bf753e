package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/flick/internal/engine"
	"git.lost.host/meutraa/flick/internal/game"
	"git.lost.host/meutraa/flick/internal/theme"
	"golang.org/x/term"
)

// Frames a judgement stays on screen.
const judgementFrames = 30

// DefaultRenderer draws frames onto an ANSI terminal, mapping the virtual
// screen of the params onto the character grid. The bottom row is the HUD.
type DefaultRenderer struct {
	Out    io.Writer
	Fd     int
	Theme  theme.Theme
	Params game.Params

	cols, rows   int
	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	X, Y    int
	Content string
	Frames  int // remaining frames until removed
}

func NewDefaultRenderer(th theme.Theme, p game.Params) *DefaultRenderer {
	return &DefaultRenderer{
		Out:    os.Stdout,
		Fd:     int(os.Stdout.Fd()),
		Theme:  th,
		Params: p,
		cols:   80,
		rows:   24,
	}
}

func (r *DefaultRenderer) Init() error {
	if term.IsTerminal(r.Fd) {
		cols, rows, err := term.GetSize(r.Fd)
		if nil != err {
			return fmt.Errorf("unable to get terminal size: %w", err)
		}
		r.Resize(cols, rows)

		state, err := term.MakeRaw(r.Fd)
		if nil != err {
			return err
		}
		r.restoreState = state
	}

	fmt.Fprintf(r.Out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.Out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.Fd, r.restoreState)
}

func (r *DefaultRenderer) Resize(cols, rows int) {
	if cols < 10 {
		cols = 10
	}
	if rows < 3 {
		rows = 3
	}
	r.cols, r.rows = cols, rows
}

// Cell maps a point of the virtual screen to a 1 based column and row.
func (r *DefaultRenderer) Cell(pt game.Point) (col, row int) {
	col = 1 + int(math.Round(pt.X/r.Params.ScreenWidth*float64(r.cols-1)))
	row = 1 + int(math.Round(pt.Y/r.Params.ScreenHeight*float64(r.rows-2)))
	return clamp(col, 1, r.cols), clamp(row, 1, r.rows-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (r *DefaultRenderer) AddDecoration(col, row int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
}

// Judge shows the tier above where the note was judged.
func (r *DefaultRenderer) Judge(j engine.Judged) {
	col, row := r.Cell(j.Position)
	label := j.Tier.String()
	r.AddDecoration(clamp(col-len(label)/2, 1, r.cols), clamp(row-1, 1, r.rows-1), r.Theme.RenderTier(j.Tier), judgementFrames)
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			continue
		}
		r.Fill(d.Y, d.X, d.Content)
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

func (r *DefaultRenderer) Draw(f engine.Frame) {
	r.buffer.WriteString("\033[H\033[2J")

	for _, n := range f.Notes {
		if !n.Flying {
			col, row := r.Cell(n.Target)
			r.Fill(row, col, r.Theme.RenderTarget(n.Type))
			if n.IsHold() {
				r.Fill(row, col+2, r.Theme.RenderHold(n.Hold))
			}
		}
		col, row := r.Cell(n.Position)
		r.Fill(row, col, r.Theme.RenderNote(n.Type, n.Angle, n.Flying))
		if n.IsTap() && !n.Flying {
			col, row = r.Cell(n.Position2)
			r.Fill(row, col, r.Theme.RenderNote(n.Type, n.Angle, false))
		}
	}

	r.tickDecorations()
	r.hud(f)
	r.flush()
}

func (r *DefaultRenderer) hud(f engine.Frame) {
	s := f.Stats
	r.Fill(r.rows, 1, fmt.Sprintf("%-7v %8v  notes %d/%d  score %5d  combo %3d (max %d)  P %d  G %d  O %d  M %d",
		f.State, f.Elapsed.Truncate(100*time.Millisecond), f.Retired, f.Total, s.Score, s.Combo, s.MaxCombo,
		s.Perfect, s.Good, s.OK, s.Miss))
	if f.State == engine.StatePaused {
		msg := "PAUSED, p to resume"
		r.Fill(r.rows/2, clamp((r.cols-len(msg))/2, 1, r.cols), "\033[1m"+msg+"\033[0m")
	}
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) flush() {
	io.WriteString(r.Out, r.buffer.String())
	r.buffer.Reset()
}
