package store

import (
	"github.com/pkg/errors"

	"github.com/kat-hollis/vocabgarden/pkg/stats"
)

// RecordAttempt upserts one graded attempt for the item. Counters only grow;
// the only way down is ResetStats.
func RecordAttempt(db DBExecutor, itemID string, correct bool) error {
	c := 0
	if correct {
		c = 1
	}
	_, err := db.Exec(`INSERT INTO item_stats (item_id, attempts, correct)
		VALUES (?, 1, ?)
		ON CONFLICT(item_id) DO UPDATE SET
		  attempts = item_stats.attempts + 1,
		  correct = item_stats.correct + excluded.correct`, itemID, c)
	if err != nil {
		return errors.Wrapf(err, "record attempt for %s", itemID)
	}
	return nil
}

// ItemRecords returns per-item counters in first-attempt order.
func ItemRecords(db DBExecutor) ([]stats.ItemRecord, error) {
	rows, err := db.Query(`SELECT item_id, attempts, correct FROM item_stats ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "query item stats")
	}
	defer rows.Close()
	var out []stats.ItemRecord
	for rows.Next() {
		var r stats.ItemRecord
		if err := rows.Scan(&r.ItemID, &r.Attempts, &r.Correct); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Totals sums the global attempt and correct counters.
func Totals(db DBExecutor) (attempts, correct int, err error) {
	err = db.QueryRow(`SELECT COALESCE(SUM(attempts), 0), COALESCE(SUM(correct), 0) FROM item_stats`).
		Scan(&attempts, &correct)
	if err != nil {
		return 0, 0, errors.Wrap(err, "query stat totals")
	}
	return attempts, correct, nil
}

// ResetStats clears all attempt counters. Explicit user action only.
func ResetStats(db DBExecutor) error {
	_, err := db.Exec(`DELETE FROM item_stats`)
	return errors.Wrap(err, "reset stats")
}

// idSet reads a one-column id table into a membership map.
func idSet(db DBExecutor, table string) (map[string]bool, error) {
	rows, err := db.Query(`SELECT item_id FROM ` + table)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", table)
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

func setID(db DBExecutor, table, itemID string, on bool) error {
	var err error
	if on {
		_, err = db.Exec(`INSERT OR IGNORE INTO `+table+` (item_id) VALUES (?)`, itemID)
	} else {
		_, err = db.Exec(`DELETE FROM `+table+` WHERE item_id = ?`, itemID)
	}
	return errors.Wrapf(err, "update %s", table)
}

// Stars returns the starred item ids.
func Stars(db DBExecutor) (map[string]bool, error) { return idSet(db, "stars") }

// SetStar stars or unstars an item.
func SetStar(db DBExecutor, itemID string, on bool) error { return setID(db, "stars", itemID, on) }

// ToggleStar flips the star for an item and returns the new state.
func ToggleStar(db DBExecutor, itemID string) (bool, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(1) FROM stars WHERE item_id = ?`, itemID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "query star")
	}
	on := exists == 0
	return on, SetStar(db, itemID, on)
}

// ResetStars removes all stars.
func ResetStars(db DBExecutor) error {
	_, err := db.Exec(`DELETE FROM stars`)
	return errors.Wrap(err, "reset stars")
}

// KanjiOverrides returns the ids forced to kanji display.
func KanjiOverrides(db DBExecutor) (map[string]bool, error) { return idSet(db, "kanji_overrides") }

// SetKanjiOverride turns the per-item kanji display override on or off.
func SetKanjiOverride(db DBExecutor, itemID string, on bool) error {
	return setID(db, "kanji_overrides", itemID, on)
}

// ToggleKanjiOverride flips the override and returns the new state.
func ToggleKanjiOverride(db DBExecutor, itemID string) (bool, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(1) FROM kanji_overrides WHERE item_id = ?`, itemID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "query kanji override")
	}
	on := exists == 0
	return on, SetKanjiOverride(db, itemID, on)
}

// StatsStore adapts a DBExecutor to the stats.Store interface.
type StatsStore struct {
	DB DBExecutor
}

func (s StatsStore) RecordAttempt(itemID string, correct bool) error {
	return RecordAttempt(s.DB, itemID, correct)
}

func (s StatsStore) ItemRecords() ([]stats.ItemRecord, error) {
	return ItemRecords(s.DB)
}

func (s StatsStore) Totals() (attempts, correct int, err error) {
	return Totals(s.DB)
}
