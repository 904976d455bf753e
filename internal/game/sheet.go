package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

type NoteType uint8

const (
	Normal NoteType = iota // a rod, judged by flicking
	Tap
	Hold
)

func (t NoteType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Tap:
		return "tap"
	case Hold:
		return "hold"
	}
	return fmt.Sprintf("notetype(%d)", uint8(t))
}

func ParseNoteType(s string) (NoteType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "rod":
		return Normal, nil
	case "tap":
		return Tap, nil
	case "hold":
		return Hold, nil
	}
	return Normal, fmt.Errorf("unknown note type %q", s)
}

// SheetNote is one note as authored. X and Y are normalised screen
// coordinates, Angle is the rod angle in degrees.
type SheetNote struct {
	ID      int
	Time    time.Duration // The time the note should be hit
	Angle   float64
	X, Y    float64
	Type    NoteType
	HoldEnd time.Duration // only for holds, the time the note should be released
}

func (n SheetNote) IsTap() bool  { return n.Type == Tap }
func (n SheetNote) IsHold() bool { return n.Type == Hold }

// HoldDuration is zero for anything but a hold.
func (n SheetNote) HoldDuration() time.Duration {
	if n.Type != Hold || n.HoldEnd <= n.Time {
		return 0
	}
	return n.HoldEnd - n.Time
}

// Sheet is read only once a session has started.
type Sheet struct {
	Title      string
	BPM        float64
	Audio      string
	Background string
	Notes      []SheetNote
}

var ErrInvalidSheet = errors.New("invalid sheet")

// Normalize sorts the notes by hit time, keeping authoring order for ties.
func (s *Sheet) Normalize() {
	sort.SliceStable(s.Notes, func(i, j int) bool {
		return s.Notes[i].Time < s.Notes[j].Time
	})
}

// Validate checks the structural rules a loader must enforce. Malformed
// coordinates are not checked here, they are dropped per note when the
// timeline is derived.
func (s *Sheet) Validate() error {
	seen := make(map[int]bool, len(s.Notes))
	for i, n := range s.Notes {
		if seen[n.ID] {
			return fmt.Errorf("%w: duplicate note id %v", ErrInvalidSheet, n.ID)
		}
		seen[n.ID] = true
		if n.Time < 0 {
			return fmt.Errorf("%w: note %v has negative time", ErrInvalidSheet, n.ID)
		}
		if n.Type == Hold && n.HoldEnd <= n.Time {
			return fmt.Errorf("%w: hold note %v ends before it starts", ErrInvalidSheet, n.ID)
		}
		if i > 0 && s.Notes[i-1].Time > n.Time {
			return fmt.Errorf("%w: notes out of order at %v", ErrInvalidSheet, n.ID)
		}
	}
	return nil
}

// End is the last moment any note needs attention.
func (s *Sheet) End() time.Duration {
	var end time.Duration
	for _, n := range s.Notes {
		if n.Time > end {
			end = n.Time
		}
		if n.Type == Hold && n.HoldEnd > end {
			end = n.HoldEnd
		}
	}
	return end
}

func (s *Sheet) Counts() (normal, tap, hold int) {
	for _, n := range s.Notes {
		switch n.Type {
		case Tap:
			tap++
		case Hold:
			hold++
		default:
			normal++
		}
	}
	return
}
