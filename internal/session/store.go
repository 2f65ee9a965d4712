// Package session owns in-memory lab state: accepted trial records and the
// measurements derived from the current selections.
package session

import (
	"time"

	"cartlab/internal/model"
	"cartlab/internal/stats"
)

// Store is the append-only table of accepted trials for one lab session.
// State lives only in memory; the CSV export is the sole persisted artifact.
// Single-threaded by design: the UI event loop is the only writer.
type Store struct {
	nextID  int64
	records []model.TrialRecord
	subs    []func()
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Subscribe registers a callback invoked after every mutation.
func (s *Store) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.subs = append(s.subs, fn)
}

// Append commits a record, assigning its id and timestamp.
func (s *Store) Append(rec model.TrialRecord) model.TrialRecord {
	rec.ID = s.nextID
	s.nextID++
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	s.records = append(s.records, rec)
	s.notify()
	return rec
}

// Remove deletes the record with the given id, reporting whether it existed.
func (s *Store) Remove(id int64) bool {
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			s.notify()
			return true
		}
	}
	return false
}

// Records returns a copy of all accepted records in acceptance order.
func (s *Store) Records() []model.TrialRecord {
	out := make([]model.TrialRecord, len(s.records))
	copy(out, s.records)
	return out
}

// ForScenario returns the accepted records matching a scenario.
func (s *Store) ForScenario(scenario string) []model.TrialRecord {
	var out []model.TrialRecord
	for _, rec := range s.records {
		if rec.Scenario == scenario {
			out = append(out, rec)
		}
	}
	return out
}

// FitForScenario fits force against acceleration across the scenario's
// accepted trials. Every point counts equally; nil until two points exist.
func (s *Store) FitForScenario(scenario string) *model.FitResult {
	recs := s.ForScenario(scenario)
	if len(recs) < 2 {
		return nil
	}
	x := make([]float64, len(recs))
	y := make([]float64, len(recs))
	for i, rec := range recs {
		x[i] = rec.AccelerationMps2
		y[i] = rec.ForceMeanN
	}
	return stats.LinearRegression(x, y)
}

func (s *Store) notify() {
	for _, fn := range s.subs {
		fn()
	}
}
