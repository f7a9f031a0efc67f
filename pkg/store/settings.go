package store

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
)

const settingsKey = "settings"

// Settings are the learner's persisted preferences. The zero value is not
// meaningful; use DefaultSettings or LoadSettings.
type Settings struct {
	AudioOn    bool    `json:"audioOn"`
	Volume     float64 `json:"volume"`
	Autoplay   bool    `json:"autoplay"`
	SmartGrade bool    `json:"smartGrade"`
}

// DefaultSettings mirrors a fresh install: audio on at 0.9 volume, autoplay
// off, smart grading on.
func DefaultSettings() Settings {
	return Settings{AudioOn: true, Volume: 0.9, Autoplay: false, SmartGrade: true}
}

// LoadSettings reads the stored settings, falling back to defaults when
// nothing has been saved yet or the stored blob is unreadable.
func LoadSettings(db DBExecutor) Settings {
	s := DefaultSettings()
	var raw string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, settingsKey).Scan(&raw)
	if err != nil {
		return s
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return DefaultSettings()
	}
	return s
}

// SaveSettings overwrites the stored settings.
func SaveSettings(db DBExecutor, s Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encode settings")
	}
	_, err = db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, settingsKey, string(raw))
	return errors.Wrap(err, "save settings")
}

// seededKey marks first-run seeding so a reset can be distinguished from a
// fresh install.
const seededKey = "seeded"

// SeedIfNeeded performs first-run initialization exactly once.
func SeedIfNeeded(db DBExecutor) error {
	var v string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, seededKey).Scan(&v)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return errors.Wrap(err, "query seed marker")
	}
	if err := SaveSettings(db, DefaultSettings()); err != nil {
		return err
	}
	_, err = db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, '1')`, seededKey)
	return errors.Wrap(err, "write seed marker")
}
