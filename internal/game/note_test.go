package game

import (
	"testing"
	"time"
)

func TestInTapArea(t *testing.T) {
	p := DefaultParams()
	n := &ActiveNote{Type: Tap, Target: Point{500, 400}}

	hits := []Point{
		{500, 400},                     // centre
		{500 + p.TapCenterRadius, 400}, // centre edge
		{500, 400 + p.TapFlankOffset},  // lower triangle
		{510, 400 - p.TapFlankOffset},  // upper triangle
	}
	for _, pt := range hits {
		if !n.InTapArea(pt, p) {
			t.Errorf("%v should hit", pt)
		}
	}
	misses := []Point{
		{500 + p.TapFlankWidth, 400 + p.TapFlankOffset},
		{500, 400 + p.TapFlankOffset + p.TapFlankHeight},
		{700, 700},
	}
	for _, pt := range misses {
		if n.InTapArea(pt, p) {
			t.Errorf("%v should miss", pt)
		}
	}

	// Rotating the rod rotates the flanks with it.
	n.Angle = 90
	if !n.InTapArea(Point{500 - p.TapFlankOffset, 400}, p) {
		t.Error("rotated flank should hit")
	}
	if n.InTapArea(Point{500, 400 + p.TapFlankOffset}, p) {
		t.Error("unrotated flank should miss")
	}
}

func TestSheetValidate(t *testing.T) {
	good := &Sheet{Notes: []SheetNote{
		{ID: 1, Time: time.Second},
		{ID: 2, Time: 2 * time.Second, Type: Hold, HoldEnd: 3 * time.Second},
	}}
	if err := good.Validate(); nil != err {
		t.Error(err)
	}
	if good.End() != 3*time.Second {
		t.Errorf("End = %v", good.End())
	}

	bad := []*Sheet{
		{Notes: []SheetNote{{ID: 1}, {ID: 1}}},
		{Notes: []SheetNote{{ID: 1, Type: Hold, Time: time.Second, HoldEnd: time.Second}}},
		{Notes: []SheetNote{{ID: 1, Time: 2 * time.Second}, {ID: 2, Time: time.Second}}},
	}
	for i, s := range bad {
		if err := s.Validate(); nil == err {
			t.Errorf("sheet %d should be rejected", i)
		}
	}

	s := bad[2]
	s.Normalize()
	if err := s.Validate(); nil != err {
		t.Errorf("normalized sheet rejected: %v", err)
	}
}
