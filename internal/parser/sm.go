package parser

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"git.lost.host/meutraa/flick/internal/game"
)

type bpm struct {
	StartingBeat float64
	Value        float64
}

type difficulty struct {
	Name    string
	Section string
}

func secondsPerNote(rates []bpm, currentBeat float64, bpn float64) float64 {
	sel := 0.0
	for _, r := range rates {
		if currentBeat >= r.StartingBeat {
			sel = r.Value
		} else {
			break
		}
	}
	if sel <= 0 {
		return 0
	}
	return bpn * 60.0 / sel
}

// 0 – No note
// 1 – Normal note, a rod here
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head, played as a hold
// M – Mine, skipped
// K – Automatic keysound
// L – Lift note, a tap here
// F – Fake note

func isNoteRow(l string) bool {
	if l == "" {
		return false
	}
	for _, c := range l {
		if !strings.ContainsRune("0123456789MKLF", c) {
			return false
		}
	}
	return true
}

func metaValue(meta, tag string) (string, bool) {
	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimPrefix(strings.TrimSpace(mdl), "#")
		if strings.HasPrefix(mdl, tag+":") {
			mdl = strings.TrimPrefix(mdl, tag+":")
			return strings.TrimSpace(strings.TrimSuffix(mdl, ";")), true
		}
	}
	return "", false
}

func parseBPMs(value string) ([]bpm, error) {
	value = strings.ReplaceAll(value, "\n", "")
	bpms := []bpm{}
	for _, pair := range strings.Split(value, ",") {
		as := strings.Split(pair, "=")
		if len(as) != 2 {
			return nil, fmt.Errorf("bad bpm %q", pair)
		}
		sb, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
		if nil != err {
			return nil, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
		if nil != err {
			return nil, err
		}
		bpms = append(bpms, bpm{StartingBeat: sb, Value: v})
	}
	return bpms, nil
}

// DecodeSM converts one chart of a StepMania file into a sheet. Columns
// become evenly spaced targets on a horizontal line through the middle of
// the screen.
func DecodeSM(data []byte, name string) (*game.Sheet, error) {
	str := strings.ReplaceAll(string(data), "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]

	var chart *difficulty
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			continue
		}
		d := difficulty{
			Name:    strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
			Section: lines[6],
		}
		if name == "" || strings.EqualFold(name, d.Name) {
			chart = &d
			break
		}
	}
	if nil == chart {
		return nil, fmt.Errorf("%w: no chart %q", ErrUnsupported, name)
	}

	sheet := &game.Sheet{}
	sheet.Title, _ = metaValue(meta, "TITLE")
	sheet.Audio, _ = metaValue(meta, "MUSIC")
	sheet.Background, _ = metaValue(meta, "BACKGROUND")

	offset := 0.0
	if v, ok := metaValue(meta, "OFFSET"); ok {
		offs, err := strconv.ParseFloat(v, 64)
		if nil != err {
			return nil, fmt.Errorf("offset: %w", err)
		}
		offset = -offs
	}
	bpms := []bpm{}
	if v, ok := metaValue(meta, "BPMS"); ok {
		var err error
		if bpms, err = parseBPMs(v); nil != err {
			return nil, fmt.Errorf("bpms: %w", err)
		}
	}
	if len(bpms) == 0 {
		return nil, fmt.Errorf("%w: chart has no bpm", ErrUnsupported)
	}
	sheet.BPM = bpms[0].Value

	seconds := offset
	currentBeat := 0.0
	notes := []game.SheetNote{}
	open := map[int]int{} // column to index of its unfinished hold
	early := 0            // notes before the music starts

	for _, block := range strings.Split(chart.Section, "\n,") {
		lines := []string{}
		for _, l := range strings.Split(block, "\n") {
			l = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(l), ";"))
			if isNoteRow(l) {
				lines = append(lines, l)
			}
		}
		if len(lines) == 0 {
			continue
		}

		// Beat count is 4 per block
		beatsPerNote := 4.0 / float64(len(lines))

		for _, line := range lines {
			at := toDuration(seconds)
			columns := len(line)
			for i, c := range line {
				x := float64(i+1) / float64(columns+1)
				if at < 0 && strings.ContainsRune("124L", c) {
					early++
					continue
				}
				switch c {
				case '1', 'L':
					t := game.Normal
					if c == 'L' {
						t = game.Tap
					}
					notes = append(notes, game.SheetNote{ID: len(notes) + 1, Time: at, X: x, Y: 0.5, Type: t})
				case '2', '4':
					open[i] = len(notes)
					notes = append(notes, game.SheetNote{ID: len(notes) + 1, Time: at, X: x, Y: 0.5, Type: game.Hold})
				case '3':
					if j, ok := open[i]; ok {
						notes[j].HoldEnd = at
						delete(open, i)
					}
				}
			}
			seconds += secondsPerNote(bpms, currentBeat, beatsPerNote)
			currentBeat += beatsPerNote
		}
	}

	if early > 0 {
		log.Println("dropping notes before the music starts:", early)
	}
	for _, j := range open {
		log.Println("hold without a tail, playing it as a rod:", notes[j].ID)
		notes[j].Type = game.Normal
	}
	sheet.Notes = notes
	return finish(sheet)
}
