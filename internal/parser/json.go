package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"git.lost.host/meutraa/flick/internal/game"
)

type jsonNote struct {
	ID      int     `json:"id"`
	Time    float64 `json:"time"` // seconds
	Angle   float64 `json:"angle"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Type    string  `json:"type"`
	HoldEnd float64 `json:"holdEnd,omitempty"`
}

type jsonSheet struct {
	Title      string     `json:"title"`
	BPM        float64    `json:"bpm"`
	Audio      string     `json:"audio"`
	Background string     `json:"background"`
	Notes      []jsonNote `json:"notes"`
}

func toDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

// DecodeJSON reads a sheet in the native JSON format.
func DecodeJSON(data []byte) (*game.Sheet, error) {
	var js jsonSheet
	if err := json.Unmarshal(data, &js); nil != err {
		return nil, fmt.Errorf("decoding sheet: %w", err)
	}

	sheet := &game.Sheet{
		Title:      js.Title,
		BPM:        js.BPM,
		Audio:      js.Audio,
		Background: js.Background,
		Notes:      make([]game.SheetNote, 0, len(js.Notes)),
	}
	for _, n := range js.Notes {
		t, err := game.ParseNoteType(n.Type)
		if nil != err {
			return nil, fmt.Errorf("note %v: %w", n.ID, err)
		}
		note := game.SheetNote{
			ID:    n.ID,
			Time:  toDuration(n.Time),
			Angle: n.Angle,
			X:     n.X,
			Y:     n.Y,
			Type:  t,
		}
		if t == game.Hold {
			note.HoldEnd = toDuration(n.HoldEnd)
		}
		sheet.Notes = append(sheet.Notes, note)
	}
	return finish(sheet)
}

// EncodeJSON writes sheet in the format DecodeJSON reads.
func EncodeJSON(sheet *game.Sheet) ([]byte, error) {
	js := jsonSheet{
		Title:      sheet.Title,
		BPM:        sheet.BPM,
		Audio:      sheet.Audio,
		Background: sheet.Background,
		Notes:      make([]jsonNote, 0, len(sheet.Notes)),
	}
	for _, n := range sheet.Notes {
		jn := jsonNote{
			ID:    n.ID,
			Time:  n.Time.Seconds(),
			Angle: n.Angle,
			X:     n.X,
			Y:     n.Y,
			Type:  n.Type.String(),
		}
		if n.IsHold() {
			jn.HoldEnd = n.HoldEnd.Seconds()
		}
		js.Notes = append(js.Notes, jn)
	}
	return json.MarshalIndent(js, "", "  ")
}

func finish(sheet *game.Sheet) (*game.Sheet, error) {
	sheet.Normalize()
	if err := sheet.Validate(); nil != err {
		return nil, err
	}
	return sheet, nil
}
