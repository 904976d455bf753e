package engine

import (
	"context"
	"time"

	"git.lost.host/meutraa/flick/internal/clock"
	"git.lost.host/meutraa/flick/internal/game"
	"git.lost.host/meutraa/flick/internal/input"
	"git.lost.host/meutraa/flick/internal/score"
)

// Transport is the audio side of play, paused and resumed with the session.
type Transport interface {
	Play()
	Pause()
}

// Frame is the read only view handed to the renderer every motion tick.
type Frame struct {
	At      clock.Time
	Elapsed time.Duration
	Notes   []game.ActiveNote
	Stats   score.Stats
	State   State
	Retired int
	Total   int
}

type LoopOption func(*Loop)

func WithTransport(t Transport) LoopOption {
	return func(l *Loop) {
		l.transport = t
	}
}

// WithFrames receives a Frame after every motion tick, on the loop's
// goroutine.
func WithFrames(fn func(Frame)) LoopOption {
	return func(l *Loop) {
		l.onFrame = fn
	}
}

// Loop owns a session and is the only goroutine touching it. Timer
// deadlines, ticks, input and control all arrive here and are handled one
// at a time.
type Loop struct {
	session   *Session
	transport Transport
	onFrame   func(Frame)
	input     chan input.Event
	control   chan input.Control
}

func NewLoop(s *Session, opts ...LoopOption) *Loop {
	l := &Loop{
		session: s,
		input:   make(chan input.Event, 128),
		control: make(chan input.Control, 8),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loop) Input() chan<- input.Event {
	return l.input
}

func (l *Loop) Control() chan<- input.Control {
	return l.control
}

func (l *Loop) frame() {
	if nil == l.onFrame {
		return
	}
	s := l.session
	now := s.Now()
	l.onFrame(Frame{
		At:      now,
		Elapsed: s.Elapsed(now),
		Notes:   s.Snapshot(),
		Stats:   s.Stats(),
		State:   s.State(),
		Retired: s.Retired(),
		Total:   s.Total(),
	})
}

// arm points the deadline timer at the next scheduled transition.
func (l *Loop) arm(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	wait := time.Hour
	if next, ok := l.session.Next(); ok {
		wait = next.Sub(l.session.Now())
		if wait < 0 {
			wait = 0
		}
	}
	timer.Reset(wait)
}

func (l *Loop) togglePause() {
	s := l.session
	switch s.State() {
	case StatePlaying:
		s.Pause()
		if nil != l.transport {
			l.transport.Pause()
		}
	case StatePaused:
		if nil != l.transport {
			l.transport.Play()
		}
		s.Resume()
	}
}

// Run starts the session and plays it until it finishes, is stopped, or ctx
// is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	s := l.session
	s.Start()
	if nil != l.transport {
		l.transport.Play()
		defer l.transport.Pause()
	}

	p := s.Params()
	motion := time.NewTicker(p.MotionPeriod())
	defer motion.Stop()
	holds := time.NewTicker(p.HoldPeriod())
	defer holds.Stop()
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for s.State() != StateDone {
		l.arm(timer)
		select {
		case <-ctx.Done():
			s.Stop()
			l.frame()
			return ctx.Err()
		case <-timer.C:
			s.Advance()
		case <-motion.C:
			s.Advance()
			s.Tick()
			l.frame()
		case <-holds.C:
			s.HoldTick()
		case e := <-l.input:
			s.Handle(e)
		case c := <-l.control:
			switch c {
			case input.TogglePause:
				l.togglePause()
			case input.Stop:
				s.Stop()
			}
		}
	}
	l.frame()
	return nil
}
