package engine

import (
	"log"
	"sort"
	"time"

	"git.lost.host/meutraa/flick/internal/clock"
	"git.lost.host/meutraa/flick/internal/game"
	"git.lost.host/meutraa/flick/internal/input"
	"git.lost.host/meutraa/flick/internal/sched"
	"git.lost.host/meutraa/flick/internal/score"
)

type State uint8

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateDone:
		return "done"
	}
	return "unknown"
}

type Option func(*Session)

// WithObserver receives every event. It runs on the session's goroutine and
// must not call back into the session.
func WithObserver(fn func(Event)) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// WithStats continues from stats of an earlier, paused session.
func WithStats(stats score.Stats) Option {
	return func(s *Session) {
		s.stats = stats
	}
}

// Session plays one sheet. It is not safe for concurrent use: every call
// must come from the same goroutine, which Loop takes care of.
type Session struct {
	sheet  *game.Sheet
	params game.Params
	clock  clock.Clock

	timelines map[game.NoteID]game.Timeline
	notes     map[game.NoteID]*game.ActiveNote
	registry  *sched.Registry
	holds     *sched.HoldTimers
	tracker   *input.Tracker
	stats     score.Stats

	state    State
	epoch    clock.Time // song time zero
	pausedAt clock.Time
	paused   []sched.PausedDelay
	heldOver []game.NoteID // hold timers cancelled by the pause

	releasedWhilePaused []int // contacts

	retired     int
	diagnostics []error
	observer    func(Event)
}

func New(sheet *game.Sheet, p game.Params, c clock.Clock, opts ...Option) *Session {
	s := &Session{
		sheet:     sheet,
		params:    p,
		clock:     c,
		timelines: map[game.NoteID]game.Timeline{},
		notes:     map[game.NoteID]*game.ActiveNote{},
		registry:  sched.NewRegistry(c.Domain()),
		holds:     sched.NewHoldTimers(),
		tracker:   input.NewTracker(p.FlickSpeed),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) emit(e Event) {
	if nil != s.observer {
		s.observer(e)
	}
}

// Start derives the timeline and schedules every spawn and clear relative to
// the current time, which becomes song time zero.
func (s *Session) Start() {
	if s.state != StateIdle {
		return
	}
	s.epoch = s.clock.Now()

	timelines, dropped := game.DeriveTimelines(s.sheet, s.params)
	for _, err := range dropped {
		log.Println("dropping note:", err)
		s.diagnostics = append(s.diagnostics, err)
	}
	for i, tl := range timelines {
		id := game.NoteID(i + 1)
		s.timelines[id] = tl
		s.registry.Schedule(id, sched.Spawn, s.epoch.Add(tl.SpawnTime))
		s.registry.Schedule(id, sched.Clear, s.epoch.Add(tl.ClearTime))
	}

	s.state = StatePlaying
	s.emit(Started{At: s.epoch, Title: s.sheet.Title, Notes: len(timelines)})
}

// Elapsed converts a transport time into song time.
func (s *Session) Elapsed(t clock.Time) time.Duration {
	return t.Sub(s.epoch)
}

func (s *Session) Now() clock.Time {
	return s.clock.Now()
}

// Advance fires every transition that is due.
func (s *Session) Advance() {
	if s.state != StatePlaying {
		return
	}
	for _, t := range s.registry.Due(s.clock.Now()) {
		switch t.Kind {
		case sched.Spawn:
			s.spawn(t.ID, t.At)
		case sched.Clear:
			s.clear(t.ID)
		case sched.Expire:
			s.expire(t.ID)
		case sched.Remove:
			s.remove(t.ID, FlownOut)
		}
	}
	s.checkFinished()
}

// Next is the transport time of the next scheduled transition.
func (s *Session) Next() (clock.Time, bool) {
	if s.state != StatePlaying {
		return clock.Time{}, false
	}
	return s.registry.Next()
}

func (s *Session) checkFinished() {
	if s.state != StatePlaying || s.registry.Len() > 0 || len(s.notes) > 0 {
		return
	}
	s.state = StateDone
	s.emit(Finished{At: s.clock.Now(), Stats: s.stats})
}

// Stop abandons the session. Outstanding notes are dropped unjudged.
func (s *Session) Stop() {
	if s.state == StateDone {
		return
	}
	s.registry.Pause(s.clock.Now())
	s.holds.StopAll()
	s.paused = nil
	s.heldOver = nil
	s.releasedWhilePaused = nil
	s.notes = map[game.NoteID]*game.ActiveNote{}
	s.state = StateDone
	s.emit(Finished{At: s.clock.Now(), Stats: s.stats, Stopped: true})
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Stats() score.Stats {
	return s.stats
}

func (s *Session) Sheet() *game.Sheet {
	return s.sheet
}

func (s *Session) Params() game.Params {
	return s.params
}

// Diagnostics lists notes dropped while deriving the timeline.
func (s *Session) Diagnostics() []error {
	return s.diagnostics
}

// Retired counts notes that have left the active set.
func (s *Session) Retired() int {
	return s.retired
}

// Total counts the notes that made it into the timeline.
func (s *Session) Total() int {
	return len(s.timelines)
}

// Snapshot copies the active notes, ordered by id.
func (s *Session) Snapshot() []game.ActiveNote {
	out := make([]game.ActiveNote, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, n.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Note returns the live note with id, if it is still active.
func (s *Session) Note(id game.NoteID) (*game.ActiveNote, bool) {
	n, ok := s.notes[id]
	return n, ok
}
