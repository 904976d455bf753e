package parser

import (
	"errors"

	"git.lost.host/meutraa/flick/internal/game"
)

var ErrUnsupported = errors.New("unsupported sheet format")

// Parser loads a sheet from disk. Returned sheets are normalized and valid.
type Parser interface {
	Parse(file string) (*game.Sheet, error)
}
