package main

import (
	"log"
	"os"

	"git.lost.host/meutraa/flick/internal/config"
	"git.lost.host/meutraa/flick/internal/parser"
	"git.lost.host/meutraa/flick/internal/render"
	"git.lost.host/meutraa/flick/internal/score"
	"git.lost.host/meutraa/flick/internal/theme"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	cfg, err := config.New().Parse(args)
	if nil != err {
		return err
	}

	if cfg.PrintTunables {
		data, err := config.MarshalTunables(cfg.Params)
		if nil != err {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	// Ensure our Default implementations are used as interfaces
	var psr parser.Parser = &parser.DefaultParser{Difficulty: cfg.Difficulty}
	var store score.Store = &score.DefaultStore{}
	var th theme.Theme = &theme.DefaultTheme{}
	var r render.Renderer = render.NewDefaultRenderer(th, cfg.Params)

	p := &Program{
		Config:   cfg,
		Parser:   psr,
		Store:    store,
		Renderer: r,
	}
	return p.Run()
}
