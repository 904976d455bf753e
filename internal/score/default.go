package score

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type DefaultStore struct {
	db *sql.DB
}

func (s *DefaultStore) Init(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists results
	  (
		  id text not null primary key,
		  title text,
		  finished integer,
		  score integer,
		  max_combo integer,
		  stats blob
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		db.Close()
		return fmt.Errorf("unable to create results table: %w", err)
	}

	s.db = db
	return nil
}

func (s *DefaultStore) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

var errNotOpen = errors.New("store not initialised")

type storedResult struct {
	Stats      Stats     `json:"stats"`
	Notes      int       `json:"notes"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (s *DefaultStore) Save(r Result) error {
	if nil == s.db {
		return errNotOpen
	}
	data, err := json.Marshal(storedResult{
		Stats:      r.Stats,
		Notes:      r.Notes,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	})
	if nil != err {
		return fmt.Errorf("unable to marshal result: %w", err)
	}
	_, err = s.db.Exec(
		"insert into results(id, title, finished, score, max_combo, stats) values(?, ?, ?, ?, ?, ?)",
		r.ID, r.Title, r.FinishedAt.UnixNano(), r.Stats.Score, r.Stats.MaxCombo, data,
	)
	if nil != err {
		return fmt.Errorf("unable to save result: %w", err)
	}
	return nil
}

func (s *DefaultStore) Load(limit int) ([]Result, error) {
	if nil == s.db {
		return nil, errNotOpen
	}
	if limit <= 0 {
		limit = DefaultHistoryLength
	}
	rows, err := s.db.Query("select id, title, stats from results order by finished desc limit ?", limit)
	if nil != err {
		return nil, fmt.Errorf("unable to load results: %w", err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var id, title string
		var data []byte
		if err := rows.Scan(&id, &title, &data); nil != err {
			return nil, err
		}
		var stored storedResult
		if err := json.Unmarshal(data, &stored); nil != err {
			log.Println("unable to unmarshal result", id, err)
			continue
		}
		results = append(results, Result{
			ID:         id,
			Title:      title,
			Notes:      stored.Notes,
			Stats:      stored.Stats,
			StartedAt:  stored.StartedAt,
			FinishedAt: stored.FinishedAt,
		})
	}
	return results, rows.Err()
}

func (s *DefaultStore) Totals() (Totals, error) {
	var t Totals
	if nil == s.db {
		return t, errNotOpen
	}
	rows, err := s.db.Query("select stats from results")
	if nil != err {
		return t, fmt.Errorf("unable to load results: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); nil != err {
			return t, err
		}
		var stored storedResult
		if err := json.Unmarshal(data, &stored); nil != err {
			log.Println("unable to unmarshal result", err)
			continue
		}
		t.Add(Result{Stats: stored.Stats})
	}
	return t, rows.Err()
}

// Restore fills h from the store, oldest first so the newest ends up on top.
func Restore(s Store, h *History) error {
	results, err := s.Load(h.limit)
	if nil != err {
		return err
	}
	for i := len(results) - 1; i >= 0; i-- {
		h.entries = append([]Result{results[i]}, h.entries...)
	}
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	totals, err := s.Totals()
	if nil != err {
		return err
	}
	h.totals = totals
	return nil
}
