// Package vocab holds the vocabulary data model: items, lesson grouping, and
// the kana/kanji display rules shared by prompts, answer checking, and
// option building.
package vocab

import (
	"regexp"
	"strings"
)

// Item is one vocabulary entry. ID is the stable join key for stars, kanji
// overrides, stats, and audio files. Kana is always present; Kanji is an
// alternate spelling when present and different from Kana.
type Item struct {
	ID      string `json:"id"`
	Lesson  string `json:"lesson"`
	EN      string `json:"en"`
	Kana    string `json:"jp_kana"`
	Kanji   string `json:"jp_kanji,omitempty"`
	AudioID string `json:"audio_id,omitempty"`
}

// ResolvedAudioID returns the id under which audio files for the item are
// stored. Some entries carry a dedicated audio id; most reuse the item id.
func (it Item) ResolvedAudioID() string {
	if it.AudioID != "" {
		return it.AudioID
	}
	return it.ID
}

// DisplayMode selects which Japanese script is shown and expected.
type DisplayMode string

const (
	DisplayKana  DisplayMode = "kana"
	DisplayKanji DisplayMode = "kanji"
	DisplayBoth  DisplayMode = "both"
)

var reLessonNum = regexp.MustCompile(`lesson\s*([0-9]+(?:\.[0-9]+)?)`)

// LessonCode maps a free-text lesson label to a short grouping code:
// anything containing "pre" becomes "pre", "Lesson 3.1" becomes "l3_1",
// unrecognized labels fall into "misc".
func LessonCode(name string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "pre") {
		return "pre"
	}
	if m := reLessonNum.FindStringSubmatch(lower); m != nil {
		return "l" + strings.ReplaceAll(m[1], ".", "_")
	}
	return "misc"
}

// Display renders the item's Japanese form for the given mode. In "both"
// mode a distinct kanji spelling is appended in full-width parentheses.
func Display(it Item, mode DisplayMode) string {
	switch mode {
	case DisplayKana:
		return it.Kana
	case DisplayKanji:
		if it.Kanji != "" {
			return it.Kanji
		}
		return it.Kana
	}
	if it.Kanji != "" && it.Kanji != it.Kana {
		return it.Kana + "（" + it.Kanji + "）"
	}
	return it.Kana
}

// AcceptableAnswers returns the Japanese spellings accepted for the item at
// the given display mode. "both" accepts kana and kanji interchangeably.
func AcceptableAnswers(it Item, mode DisplayMode) []string {
	switch mode {
	case DisplayKana:
		return []string{it.Kana}
	case DisplayKanji:
		if it.Kanji != "" {
			return []string{it.Kanji}
		}
		return []string{it.Kana}
	}
	if it.Kanji != "" && it.Kanji != it.Kana {
		return []string{it.Kana, it.Kanji}
	}
	return []string{it.Kana}
}

// EffectiveDisplayMode folds the per-item kanji override into the global
// display mode. Overridden items always render and expect kanji.
func EffectiveDisplayMode(it Item, global DisplayMode, overrides map[string]bool) DisplayMode {
	if overrides[it.ID] {
		return DisplayKanji
	}
	return global
}

// Filter narrows a full item list down to the session pool: items whose
// lesson code is selected and, when starredOnly is set, whose id is starred.
// Nil codes means all lessons.
func Filter(items []Item, codes map[string]bool, starred map[string]bool, starredOnly bool) []Item {
	var pool []Item
	for _, it := range items {
		if codes != nil && !codes[LessonCode(it.Lesson)] {
			continue
		}
		if starredOnly && !starred[it.ID] {
			continue
		}
		pool = append(pool, it)
	}
	return pool
}
