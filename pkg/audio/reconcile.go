package audio

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/kat-hollis/vocabgarden/pkg/textnorm"
	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

// RenamedEntry records one raw recording matched to an item.
type RenamedEntry struct {
	From      string `json:"from"`
	To        string `json:"to"`
	ItemID    string `json:"itemId"`
	MatchedBy string `json:"matchedBy"`
}

// AmbiguousEntry records a raw recording whose token matched several items.
type AmbiguousEntry struct {
	File             string   `json:"file"`
	Token            string   `json:"token"`
	CandidateItemIDs []string `json:"candidateItemIds"`
}

// DuplicateEntry records a raw recording for an item that already has audio.
type DuplicateEntry struct {
	File   string `json:"file"`
	ItemID string `json:"itemId"`
}

// Report summarizes one reconcile run. The field names are part of the
// on-disk format and also feed the resolver's fallback map.
type Report struct {
	Renamed                []RenamedEntry   `json:"renamed"`
	UnmatchedFiles         []string         `json:"unmatched_files"`
	MissingAudioForItemIDs []string         `json:"missing_audio_for_itemIds"`
	Ambiguous              []AmbiguousEntry `json:"ambiguous"`
	Duplicates             []DuplicateEntry `json:"duplicates"`
}

// ReadReport loads a reconcile report from disk.
func ReadReport(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, errors.Wrap(err, "parse reconcile report")
	}
	return &r, nil
}

// ReadingFunc derives a kana reading from arbitrary Japanese text. The
// reconciler uses it as a last resort when a filename token carries kanji
// that matches no item verbatim.
type ReadingFunc func(string) string

// Reconciler matches loose recordings under Dir to vocabulary items and
// copies them into place under their item id.
type Reconciler struct {
	Dir     string
	Reading ReadingFunc // optional
	Logger  *slog.Logger
}

// Run stages unrecognized files into raw/, matches each staged file's
// trailing filename token against item kana and kanji, copies matches to
// <itemID>.<ext>, and writes the report to Dir. Files already named after an
// item id are left alone.
func (rc *Reconciler) Run(items []vocab.Item) (*Report, error) {
	logger := rc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rawDir := filepath.Join(rc.Dir, "raw")
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create raw dir")
	}
	if err := rc.stageOriginals(items, rawDir); err != nil {
		return nil, err
	}

	kanaMap := map[string][]vocab.Item{}
	kanjiMap := map[string][]vocab.Item{}
	for _, it := range items {
		if key := textnorm.NormalizeJapaneseToken(it.Kana); key != "" {
			kanaMap[key] = append(kanaMap[key], it)
		}
		if key := textnorm.NormalizeJapaneseToken(it.Kanji); key != "" {
			kanjiMap[key] = append(kanjiMap[key], it)
		}
	}

	report := &Report{
		Renamed:                []RenamedEntry{},
		UnmatchedFiles:         []string{},
		MissingAudioForItemIDs: []string{},
		Ambiguous:              []AmbiguousEntry{},
		Duplicates:             []DuplicateEntry{},
	}
	used := map[string]bool{}

	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return nil, errors.Wrap(err, "read raw dir")
	}
	for _, entry := range entries {
		if entry.IsDir() || !supportedAudioFile(entry.Name()) {
			continue
		}
		name := entry.Name()
		token := tokenFromFilename(name)
		key := textnorm.NormalizeJapaneseToken(token)
		ext := strings.ToLower(filepath.Ext(name))

		matches, matchedBy := kanaMap[key], "jp_kana"
		if len(matches) == 0 {
			matches, matchedBy = kanjiMap[key], "jp_kanji"
		}
		if len(matches) == 0 && rc.Reading != nil && key != "" {
			// The token may be kanji absent from any item's kanji field;
			// try its derived reading against the kana index.
			if reading := textnorm.NormalizeJapaneseToken(rc.Reading(token)); reading != "" {
				matches, matchedBy = kanaMap[reading], "reading"
			}
		}

		switch {
		case len(matches) == 0:
			report.UnmatchedFiles = append(report.UnmatchedFiles, name)
		case len(matches) > 1:
			ids := make([]string, len(matches))
			for i, it := range matches {
				ids[i] = it.ID
			}
			report.Ambiguous = append(report.Ambiguous, AmbiguousEntry{
				File: name, Token: token, CandidateItemIDs: ids,
			})
		default:
			it := matches[0]
			if used[it.ID] || rc.existingAudio(it.ID) {
				report.Duplicates = append(report.Duplicates, DuplicateEntry{File: name, ItemID: it.ID})
				continue
			}
			target := filepath.Join(rc.Dir, it.ID+ext)
			if err := copyFile(filepath.Join(rawDir, name), target); err != nil {
				return nil, errors.Wrapf(err, "copy %s", name)
			}
			used[it.ID] = true
			report.Renamed = append(report.Renamed, RenamedEntry{
				From:      "audio/raw/" + name,
				To:        "audio/" + it.ID + ext,
				ItemID:    it.ID,
				MatchedBy: matchedBy,
			})
			logger.Debug("matched recording", "file", name, "item", it.ID, "by", matchedBy)
		}
	}

	have := map[string]bool{}
	topEntries, err := os.ReadDir(rc.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "read audio dir")
	}
	for _, entry := range topEntries {
		if entry.IsDir() || !supportedAudioFile(entry.Name()) {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		have[base] = true
	}
	for _, it := range items {
		if !have[it.ID] {
			report.MissingAudioForItemIDs = append(report.MissingAudioForItemIDs, it.ID)
		}
	}

	if err := writeReport(filepath.Join(rc.Dir, ReportFile), report); err != nil {
		return nil, err
	}
	return report, nil
}

// stageOriginals moves files that are not named after an item id into raw/.
func (rc *Reconciler) stageOriginals(items []vocab.Item, rawDir string) error {
	ids := map[string]bool{}
	for _, it := range items {
		ids[it.ID] = true
	}
	entries, err := os.ReadDir(rc.Dir)
	if err != nil {
		return errors.Wrap(err, "read audio dir")
	}
	for _, entry := range entries {
		if entry.IsDir() || !supportedAudioFile(entry.Name()) {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if ids[base] {
			continue
		}
		to := filepath.Join(rawDir, entry.Name())
		if fileExists(to) {
			continue
		}
		if err := os.Rename(filepath.Join(rc.Dir, entry.Name()), to); err != nil {
			return errors.Wrapf(err, "stage %s", entry.Name())
		}
	}
	return nil
}

func (rc *Reconciler) existingAudio(id string) bool {
	for _, ext := range Extensions {
		if fileExists(filepath.Join(rc.Dir, id+"."+ext)) {
			return true
		}
	}
	return false
}

// tokenFromFilename takes the segment after the last underscore of the
// base name; source recordings are named like "0123_たべる.wav".
func tokenFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "_")
	return parts[len(parts)-1]
}

func supportedAudioFile(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func copyFile(from, to string) error {
	raw, err := os.ReadFile(from)
	if err != nil {
		return err
	}
	return os.WriteFile(to, raw, 0o644)
}

func writeReport(path string, report *Report) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, raw, 0o644), "write reconcile report")
}
