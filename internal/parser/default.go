package parser

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/flick/internal/game"
)

// DefaultParser reads JSON sheets and StepMania charts. Difficulty picks a
// chart out of a .sm file by name, the first one when empty.
type DefaultParser struct {
	Difficulty string
}

func (p *DefaultParser) Parse(file string) (*game.Sheet, error) {
	ext := strings.ToLower(filepath.Ext(file))
	if ext != ".json" && ext != ".sm" {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, file)
	}

	data, err := ioutil.ReadFile(file)
	if nil != err {
		return nil, err
	}

	var sheet *game.Sheet
	if ext == ".json" {
		sheet, err = DecodeJSON(data)
	} else {
		sheet, err = DecodeSM(data, p.Difficulty)
	}
	if nil != err {
		return nil, fmt.Errorf("%v: %w", file, err)
	}

	// media paths are relative to the sheet
	dir := filepath.Dir(file)
	if sheet.Audio != "" && !filepath.IsAbs(sheet.Audio) {
		sheet.Audio = filepath.Join(dir, sheet.Audio)
	}
	if sheet.Background != "" && !filepath.IsAbs(sheet.Background) {
		sheet.Background = filepath.Join(dir, sheet.Background)
	}
	return sheet, nil
}
