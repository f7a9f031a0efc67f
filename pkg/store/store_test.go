package store

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	require.NoError(t, InitDB(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAttemptAccumulates(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, RecordAttempt(db, "a", true))
	require.NoError(t, RecordAttempt(db, "a", false))
	require.NoError(t, RecordAttempt(db, "a", true))
	require.NoError(t, RecordAttempt(db, "b", false))

	records, err := ItemRecords(db)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ItemID)
	assert.Equal(t, 3, records[0].Attempts)
	assert.Equal(t, 2, records[0].Correct)
	assert.Equal(t, "b", records[1].ItemID)

	attempts, correct, err := Totals(db)
	require.NoError(t, err)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, 2, correct)
}

func TestItemRecordsFirstAttemptOrder(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, RecordAttempt(db, "z", false))
	require.NoError(t, RecordAttempt(db, "a", false))
	require.NoError(t, RecordAttempt(db, "z", false))

	records, err := ItemRecords(db)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "z", records[0].ItemID, "order is first attempt, not lexical")
	assert.Equal(t, "a", records[1].ItemID)
}

func TestResetStats(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, RecordAttempt(db, "a", true))
	require.NoError(t, ResetStats(db))

	attempts, correct, err := Totals(db)
	require.NoError(t, err)
	assert.Zero(t, attempts)
	assert.Zero(t, correct)
}

func TestStarsRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SetStar(db, "a", true))
	require.NoError(t, SetStar(db, "b", true))
	require.NoError(t, SetStar(db, "a", true)) // idempotent

	stars, err := Stars(db)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a": true, "b": true}, stars)

	require.NoError(t, SetStar(db, "a", false))
	stars, err = Stars(db)
	require.NoError(t, err)
	assert.False(t, stars["a"])

	on, err := ToggleStar(db, "b")
	require.NoError(t, err)
	assert.False(t, on)

	on, err = ToggleStar(db, "b")
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, ResetStars(db))
	stars, err = Stars(db)
	require.NoError(t, err)
	assert.Empty(t, stars)
}

func TestKanjiOverridesRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	on, err := ToggleKanjiOverride(db, "x")
	require.NoError(t, err)
	assert.True(t, on)

	overrides, err := KanjiOverrides(db)
	require.NoError(t, err)
	assert.True(t, overrides["x"])

	on, err = ToggleKanjiOverride(db, "x")
	require.NoError(t, err)
	assert.False(t, on)
}

func TestSettingsDefaultsAndRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	s := LoadSettings(db)
	assert.Equal(t, DefaultSettings(), s)

	s.SmartGrade = false
	s.Volume = 0.5
	require.NoError(t, SaveSettings(db, s))

	got := LoadSettings(db)
	assert.False(t, got.SmartGrade)
	assert.Equal(t, 0.5, got.Volume)
	assert.True(t, got.AudioOn)
}

func TestSeedIfNeededRunsOnce(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SeedIfNeeded(db))

	s := LoadSettings(db)
	s.AudioOn = false
	require.NoError(t, SaveSettings(db, s))

	// A second seed must not clobber saved settings.
	require.NoError(t, SeedIfNeeded(db))
	assert.False(t, LoadSettings(db).AudioOn)
}

func TestStatsStoreAdapter(t *testing.T) {
	db := setupTestDB(t)
	st := StatsStore{DB: db}

	require.NoError(t, st.RecordAttempt("a", true))
	records, err := st.ItemRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)

	attempts, correct, err := st.Totals()
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, correct)
}
