package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"git.lost.host/meutraa/flick/internal/audio"
	"git.lost.host/meutraa/flick/internal/clock"
	"git.lost.host/meutraa/flick/internal/config"
	"git.lost.host/meutraa/flick/internal/engine"
	"git.lost.host/meutraa/flick/internal/game"
	"git.lost.host/meutraa/flick/internal/input"
	"git.lost.host/meutraa/flick/internal/parser"
	"git.lost.host/meutraa/flick/internal/render"
	"git.lost.host/meutraa/flick/internal/score"
	"git.lost.host/meutraa/flick/internal/testdata"
)

// Program plays one sheet from the terminal and records the result.
type Program struct {
	Config   *config.Config
	Parser   parser.Parser
	Store    score.Store
	Renderer render.Renderer

	sheet   *game.Sheet
	track   *audio.Track
	history *score.History

	startedAt time.Time
	finished  *engine.Finished
}

func (p *Program) loadSheet() error {
	if p.Config.Sheet == "" {
		log.Println("no sheet given, playing the warm up")
		p.sheet = testdata.GetSheet()
		return nil
	}
	sheet, err := p.Parser.Parse(p.Config.Sheet)
	if nil != err {
		return err
	}
	p.sheet = sheet
	return nil
}

func (p *Program) openHistory() error {
	if err := os.MkdirAll(filepath.Dir(p.Config.Database), 0755); nil != err {
		return fmt.Errorf("unable to create history directory: %w", err)
	}
	if err := p.Store.Init(p.Config.Database); nil != err {
		return err
	}
	p.history = score.NewHistory(p.Config.History)
	if err := score.Restore(p.Store, p.history); nil != err {
		log.Println("unable to restore history:", err)
	}
	return nil
}

// openTrack falls back to the wall clock when there is no playable audio.
func (p *Program) openTrack() clock.Clock {
	file := p.Config.Audio
	if file == "" {
		file = p.sheet.Audio
	}
	if file == "" {
		return clock.NewWallClock()
	}
	track, err := audio.Open(file)
	if nil != err {
		log.Println("playing without audio:", err)
		return clock.NewWallClock()
	}
	p.track = track
	return track.Clock()
}

func (p *Program) leadIn() string {
	normal, tap, hold := p.sheet.Counts()
	msg := fmt.Sprintf("%v: %v rods, %v taps, %v holds", p.sheet.Title, normal, tap, hold)
	if nil != p.track {
		msg += fmt.Sprintf(", %v long", p.track.Length().Truncate(time.Second))
	}
	return msg + fmt.Sprintf(", starting in %v", p.Config.Delay)
}

func (p *Program) observe(e engine.Event) {
	switch e := e.(type) {
	case engine.Judged:
		p.Renderer.Judge(e)
	case engine.Finished:
		p.finished = &e
	}
}

func (p *Program) Run() error {
	if err := p.loadSheet(); nil != err {
		return err
	}
	if err := p.openHistory(); nil != err {
		return err
	}
	defer p.Store.Deinit()

	clk := p.openTrack()
	if nil != p.track {
		defer p.track.Close()
	}

	session := engine.New(p.sheet, p.Config.Params, clk, engine.WithObserver(p.observe))
	opts := []engine.LoopOption{engine.WithFrames(p.Renderer.Draw)}
	if nil != p.track {
		opts = append(opts, engine.WithTransport(p.track))
	}
	loop := engine.NewLoop(session, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := p.Renderer.Init(); nil != err {
		return err
	}
	rendering := true
	defer func() {
		if rendering {
			p.Renderer.Deinit()
		}
	}()

	// keys pressed during the lead in wait in the loop's queues
	kb := input.NewKeyboard(clk, p.Config.Params, p.Config.KeyHold, loop.Input(), loop.Control())
	if err := kb.Read(); nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer kb.Close()

	p.Renderer.AddDecoration(1, 1, p.leadIn(), 1)
	p.Renderer.Draw(engine.Frame{State: engine.StateIdle})
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(p.Config.Delay):
	}

	p.startedAt = time.Now()
	if err := loop.Run(ctx); nil != err && err != context.Canceled {
		return err
	}

	rendering = false
	if err := p.Renderer.Deinit(); nil != err {
		log.Println("unable to restore terminal:", err)
	}
	for _, err := range session.Diagnostics() {
		log.Println("dropped:", err)
	}
	return p.record(session)
}

// record saves a finished play. Abandoned plays are shown but not kept.
func (p *Program) record(session *engine.Session) error {
	stats := session.Stats()
	fmt.Printf("%v\n  score %v  max combo %v  perfect %v  good %v  ok %v  miss %v\n",
		p.sheet.Title, stats.Score, stats.MaxCombo, stats.Perfect, stats.Good, stats.OK, stats.Miss)
	if nil == p.finished || p.finished.Stopped {
		fmt.Printf("  stopped after %v of %v notes\n", session.Retired(), session.Total())
		return nil
	}

	result := score.NewResult(p.sheet.Title, len(p.sheet.Notes), stats, p.startedAt, time.Now())
	p.history.Add(result)
	if err := p.Store.Save(result); nil != err {
		return err
	}

	fmt.Println("\nRecent plays")
	for _, r := range p.history.Entries() {
		fmt.Printf("  %v  %-24v %6v  combo %v\n", r.FinishedAt.Format("2006-01-02 15:04"), r.Title, r.Stats.Score, r.Stats.MaxCombo)
	}
	t := p.history.Totals()
	fmt.Printf("\n%v plays, %v points, best combo %v\n", t.Plays, t.Score, t.BestCombo)
	return nil
}
