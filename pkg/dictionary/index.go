package dictionary

import (
	"sort"
	"strings"

	"github.com/kat-hollis/vocabgarden/pkg/textnorm"
)

// Index holds an in-memory lookup over dictionary entries, keyed by every
// kanji and kana writing. Built once, read-only afterwards.
type Index struct {
	byText map[string][]Entry
}

// NewIndex builds the lookup structure.
func NewIndex(entries []Entry) *Index {
	idx := make(map[string][]Entry)
	for _, e := range entries {
		for _, k := range e.Kanji {
			idx[k.Text] = append(idx[k.Text], e)
		}
		for _, k := range e.Kana {
			idx[k.Text] = append(idx[k.Text], e)
		}
	}
	return &Index{byText: idx}
}

// Lookup finds entries for a word. Matching tries the surface form and the
// lemma, then filters by reading when one is known. Results are ordered by
// entry id for determinism.
func (ix *Index) Lookup(word, lemma, reading string) []Entry {
	candidates := map[string]Entry{}
	for _, term := range []string{word, lemma} {
		if term == "" {
			continue
		}
		for _, e := range ix.byText[term] {
			candidates[e.ID] = e
		}
	}

	var results []Entry
	for _, e := range candidates {
		if entryMatches(e, word, lemma, reading) {
			results = append(results, e)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}

// Best returns the preferred entry for a word, favoring entries whose
// writing is marked common. When the reading matches nothing (conjugated
// surface forms carry the reading of the surface, not the lemma) the lookup
// is retried without it.
func (ix *Index) Best(word, lemma, reading string) (Entry, bool) {
	entries := ix.Lookup(word, lemma, reading)
	if len(entries) == 0 && reading != "" {
		entries = ix.Lookup(word, lemma, "")
	}
	if len(entries) == 0 {
		return Entry{}, false
	}
	for _, e := range entries {
		if isCommon(e) {
			return e, true
		}
	}
	return entries[0], true
}

// BestGloss returns a short English translation for a word. Empty when
// nothing matches.
func (ix *Index) BestGloss(word, lemma, reading string) string {
	e, ok := ix.Best(word, lemma, reading)
	if !ok {
		return ""
	}
	return FirstGloss(e)
}

// PrimaryKana returns the entry's common kana writing, or its first one.
func PrimaryKana(e Entry) string {
	for _, k := range e.Kana {
		if k.Common {
			return k.Text
		}
	}
	if len(e.Kana) > 0 {
		return e.Kana[0].Text
	}
	return ""
}

func isCommon(e Entry) bool {
	for _, k := range e.Kanji {
		if k.Common {
			return true
		}
	}
	for _, k := range e.Kana {
		if k.Common {
			return true
		}
	}
	return false
}

// FirstGloss joins the glosses of the first English sense. Senses after
// the first tend to be rarer meanings that only clutter a flashcard.
func FirstGloss(e Entry) string {
	for _, s := range e.Sense {
		var glosses []string
		for _, g := range s.Gloss {
			if g.Lang != "" && g.Lang != "eng" {
				continue
			}
			glosses = append(glosses, g.Text)
		}
		if len(glosses) > 0 {
			return strings.Join(glosses, ", ")
		}
	}
	return ""
}

func entryMatches(e Entry, word, lemma, reading string) bool {
	hasText := false
	for _, k := range e.Kanji {
		if k.Text == word || k.Text == lemma {
			hasText = true
			break
		}
	}
	if !hasText {
		for _, k := range e.Kana {
			if k.Text == word || k.Text == lemma {
				hasText = true
				break
			}
		}
	}
	if !hasText {
		return false
	}
	if reading == "" {
		return true
	}

	want := textnorm.ToHiragana(reading)
	for _, k := range e.Kana {
		if textnorm.ToHiragana(k.Text) == want {
			return true
		}
	}
	return false
}
