package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"git.lost.host/meutraa/flick/internal/engine"
	"git.lost.host/meutraa/flick/internal/game"
	"git.lost.host/meutraa/flick/internal/score"
	"git.lost.host/meutraa/flick/internal/theme"
)

func newTestRenderer(out *bytes.Buffer) *DefaultRenderer {
	r := NewDefaultRenderer(&theme.DefaultTheme{}, game.DefaultParams())
	r.Out = out
	r.Fd = -1
	r.Resize(81, 21)
	return r
}

func TestCell(t *testing.T) {
	r := newTestRenderer(&bytes.Buffer{})
	tests := []struct {
		pt       game.Point
		col, row int
	}{
		{game.Point{X: 0, Y: 0}, 1, 1},
		{game.Point{X: 500, Y: 400}, 41, 11},
		{game.Point{X: 1000, Y: 800}, 81, 20},
		{game.Point{X: 5000, Y: -10}, 81, 1},
	}
	for _, test := range tests {
		col, row := r.Cell(test.pt)
		if col != test.col || row != test.row {
			t.Log(test.pt, "got", col, row, "want", test.col, test.row)
			t.Fail()
		}
	}
}

func TestDraw(t *testing.T) {
	out := &bytes.Buffer{}
	r := newTestRenderer(out)
	if err := r.Init(); nil != err {
		t.Fatal(err)
	}

	note := game.ActiveNote{ID: 1, Type: game.Normal, Target: game.Point{X: 500, Y: 400}, Position: game.Point{X: 500, Y: 500}}
	r.Judge(engine.Judged{ID: 2, Tier: game.Perfect, Position: game.Point{X: 250, Y: 200}})
	r.Draw(engine.Frame{
		Elapsed: 2500 * time.Millisecond,
		Notes:   []game.ActiveNote{note},
		Stats:   score.Stats{Score: 3, Combo: 1, MaxCombo: 1, Perfect: 1},
		State:   engine.StatePlaying,
		Retired: 1,
		Total:   7,
	})

	s := out.String()
	for _, want := range []string{"━", "PERFECT", "score     3", "2.5s", "notes 1/7", "\033[13;41H"} {
		if !strings.Contains(s, want) {
			t.Log("missing", want)
			t.Fail()
		}
	}

	// decorations expire
	for i := 0; i < judgementFrames+1; i++ {
		r.Draw(engine.Frame{State: engine.StatePlaying})
	}
	out.Reset()
	r.Draw(engine.Frame{State: engine.StatePaused})
	if s := out.String(); strings.Contains(s, "PERFECT") || !strings.Contains(s, "PAUSED") {
		t.Errorf("frame = %q", s)
	}

	if err := r.Deinit(); nil != err {
		t.Fatal(err)
	}
}
