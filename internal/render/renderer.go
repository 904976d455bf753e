package render

import "git.lost.host/meutraa/flick/internal/engine"

type Renderer interface {
	Init() error
	Deinit() error
	AddDecoration(col, row int, content string, frames int)
	Draw(f engine.Frame)
	Judge(j engine.Judged)
	Fill(row, column int, message string)
}
