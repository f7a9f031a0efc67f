// Package textnorm canonicalizes English and Japanese strings for lenient
// answer comparison. The two pipelines differ on purpose: English keeps
// internal spaces as word separators, Japanese text has no word-internal
// spaces so whitespace is deleted outright.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reApostrophe    = regexp.MustCompile(`[’']`)
	reParenthetical = regexp.MustCompile(`\(.*?\)`)
	reNonEnglish    = regexp.MustCompile(`[^a-z0-9\s\-]`)
	reSpaces        = regexp.MustCompile(`\s+`)
)

// Punctuation stripped from Japanese answers before comparison. Covers both
// full-width and half-width forms.
const jpPunct = "。．.、,，'’\"“”！？!?：:;；・"

// Extra punctuation stripped from filename tokens. VoiceVox-style exports
// carry brackets and tildes that never appear in typed answers.
const jpTokenPunct = jpPunct + "（）()[]{}「」『』＜＞<>【】～〜~"

// NormalizeEnglish lowercases, folds curly apostrophes, drops parenthetical
// clarifications, strips everything that is not a letter, digit, space, or
// hyphen, and collapses whitespace runs.
func NormalizeEnglish(s string) string {
	s = strings.ToLower(s)
	s = reApostrophe.ReplaceAllString(s, "'")
	s = reParenthetical.ReplaceAllString(s, " ")
	s = reNonEnglish.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// EnglishAliases returns the acceptable phrasings of a raw gloss, in order:
// the full trimmed gloss, the text before the first comma, and the text
// before the first opening parenthesis. Duplicates and empty strings are
// dropped, so "to eat, to dine (formal)" yields ["to eat, to dine (formal)",
// "to eat"].
func EnglishAliases(gloss string) []string {
	base := strings.TrimSpace(gloss)
	parts := []string{
		base,
		strings.TrimSpace(firstSegment(base, ",")),
		strings.TrimSpace(firstSegment(base, "(")),
	}
	seen := make(map[string]bool, len(parts))
	var out []string
	for _, p := range parts {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func firstSegment(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}

// NormalizeJapanese applies NFKC (folding full-width/half-width and
// compatibility variants), deletes all whitespace, and strips Japanese and
// ASCII punctuation.
func NormalizeJapanese(s string) string {
	return stripJapanese(s, jpPunct)
}

// NormalizeJapaneseToken is the filename-token variant of NormalizeJapanese:
// same pipeline with brackets and tildes stripped as well.
func NormalizeJapaneseToken(s string) string {
	return stripJapanese(s, jpTokenPunct)
}

func stripJapanese(s, punct string) string {
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(punct, r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// ToHiragana folds katakana runes to their hiragana equivalents. Kagome
// readings come back in katakana; vocabulary entries use hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
