package score

import (
	"time"

	"git.lost.host/meutraa/flick/internal/game"
	"github.com/google/uuid"
)

// Stats accumulate the judgements of one session.
type Stats struct {
	Score    int `json:"score"`
	Combo    int `json:"combo"`
	MaxCombo int `json:"max_combo"`
	Perfect  int `json:"perfect"`
	Good     int `json:"good"`
	OK       int `json:"ok"`
	Miss     int `json:"miss"`
}

// Apply folds one judgement in and returns the points it was worth. Every
// counter is updated before it returns, so a copy never sees half of it.
func (s *Stats) Apply(t game.Tier) int {
	switch t {
	case game.Perfect:
		s.Perfect++
	case game.Good:
		s.Good++
	case game.OK:
		s.OK++
	default:
		s.Miss++
		s.Combo = 0
		return 0
	}
	s.Combo++
	if s.Combo > s.MaxCombo {
		s.MaxCombo = s.Combo
	}
	points := t.Points()
	s.Score += points
	return points
}

func (s Stats) Count(t game.Tier) int {
	switch t {
	case game.Perfect:
		return s.Perfect
	case game.Good:
		return s.Good
	case game.OK:
		return s.OK
	}
	return s.Miss
}

func (s Stats) Judged() int {
	return s.Perfect + s.Good + s.OK + s.Miss
}

// Result is the finalised record of a session.
type Result struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Notes      int       `json:"notes"`
	Stats      Stats     `json:"stats"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func NewResult(title string, notes int, stats Stats, started, finished time.Time) Result {
	return Result{
		ID:         uuid.NewString(),
		Title:      title,
		Notes:      notes,
		Stats:      stats,
		StartedAt:  started,
		FinishedAt: finished,
	}
}

// Totals are lifetime counters over every finished session.
type Totals struct {
	Plays         int
	Score         int
	MaxComboTotal int // sum of each session's max combo
	BestCombo     int
	Perfect       int
	Good          int
	OK            int
	Miss          int
}

func (t *Totals) Add(r Result) {
	t.Plays++
	t.Score += r.Stats.Score
	t.MaxComboTotal += r.Stats.MaxCombo
	if r.Stats.MaxCombo > t.BestCombo {
		t.BestCombo = r.Stats.MaxCombo
	}
	t.Perfect += r.Stats.Perfect
	t.Good += r.Stats.Good
	t.OK += r.Stats.OK
	t.Miss += r.Stats.Miss
}

const DefaultHistoryLength = 20

// History is a bounded play log, most recent first.
type History struct {
	limit   int
	entries []Result
	totals  Totals
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLength
	}
	return &History{limit: limit}
}

// Add records a finished session, dropping the oldest entry when full.
func (h *History) Add(r Result) {
	h.totals.Add(r)
	h.entries = append([]Result{r}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
}

func (h *History) Entries() []Result {
	out := make([]Result, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Totals() Totals {
	return h.totals
}
