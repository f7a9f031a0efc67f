// Package stats accumulates per-item attempt counters across sessions and
// derives the most-missed ranking shown on the stats screen.
package stats

import (
	"fmt"
	"sort"
)

// ItemRecord is one item's lifetime counters. Attempts and Correct only ever
// grow, except through an explicit reset in the backing store.
type ItemRecord struct {
	ItemID   string
	Attempts int
	Correct  int
}

// Misses is the number of incorrect attempts.
func (r ItemRecord) Misses() int { return r.Attempts - r.Correct }

// Store is the persistence surface the tracker writes through. Records come
// back in first-attempt order, which is what breaks ranking ties.
type Store interface {
	RecordAttempt(itemID string, correct bool) error
	ItemRecords() ([]ItemRecord, error)
	Totals() (attempts, correct int, err error)
}

// Tracker wraps a Store with the tracking and query logic. Each attempt is
// persisted immediately, so a crash mid-session loses at most the in-flight
// question.
type Tracker struct {
	store Store
}

// NewTracker returns a tracker over the given store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// Record durably counts one graded attempt for the item.
func (t *Tracker) Record(itemID string, correct bool) error {
	if err := t.store.RecordAttempt(itemID, correct); err != nil {
		return fmt.Errorf("record attempt for %s: %w", itemID, err)
	}
	return nil
}

// Totals returns the global attempt and correct counters.
func (t *Tracker) Totals() (attempts, correct int, err error) {
	return t.store.Totals()
}

// Accuracy returns the overall correct rate in percent, rounded; zero when
// nothing has been attempted.
func (t *Tracker) Accuracy() (int, error) {
	attempts, correct, err := t.store.Totals()
	if err != nil {
		return 0, err
	}
	if attempts == 0 {
		return 0, nil
	}
	return int(float64(correct)/float64(attempts)*100 + 0.5), nil
}

// MostMissed returns up to limit items with at least minAttempts attempts
// and at least one miss, ordered by miss count descending. Ties keep the
// store's first-attempt order.
func (t *Tracker) MostMissed(minAttempts, limit int) ([]ItemRecord, error) {
	records, err := t.store.ItemRecords()
	if err != nil {
		return nil, err
	}
	return RankMisses(records, minAttempts, limit), nil
}

// RankMisses is the pure ranking over a record list; MostMissed applies it
// to the persisted state.
func RankMisses(records []ItemRecord, minAttempts, limit int) []ItemRecord {
	var out []ItemRecord
	for _, r := range records {
		if r.Attempts >= minAttempts && r.Misses() > 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Misses() > out[j].Misses()
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
