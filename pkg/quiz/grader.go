package quiz

import (
	"strings"

	"github.com/kat-hollis/vocabgarden/pkg/textnorm"
	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

// Grader decides whether a typed response is correct.
//
// With Smart off, answers must match exactly after trimming. With Smart on,
// English answers are normalized and accepted when they equal an alias of
// the gloss or contain / are contained by one; Japanese answers are
// normalized and must equal an acceptable spelling exactly, since a partial
// kana or kanji string is not meaningfully correct.
type Grader struct {
	Smart bool

	// MinSubstringLen, when positive, rejects substring matches where the
	// shorter side of the comparison has fewer runes than this. It does not
	// affect exact-equality matches. Zero preserves the historical behavior:
	// a one-character gloss alias matches almost anything that contains it.
	MinSubstringLen int
}

// Grade checks raw typed input against the question's acceptable answers.
// Japanese-target questions accept kana or kanji regardless of display mode;
// strict mode is deliberately no stricter about script choice.
func (g Grader) Grade(q Question, raw string) bool {
	if !g.Smart {
		return g.gradeStrict(q, raw)
	}
	if q.Mode.EnglishAnswer() {
		return g.gradeSmartEnglish(q, raw)
	}
	return gradeSmartJapanese(q, raw)
}

func (g Grader) gradeStrict(q Question, raw string) bool {
	u := strings.TrimSpace(raw)
	if q.Mode.JapaneseAnswer() {
		for _, a := range vocab.AcceptableAnswers(q.Item, vocab.DisplayBoth) {
			if a = strings.TrimSpace(a); a != "" && a == u {
				return true
			}
		}
		return false
	}
	return u == strings.TrimSpace(q.Item.EN)
}

func (g Grader) gradeSmartEnglish(q Question, raw string) bool {
	u := textnorm.NormalizeEnglish(raw)
	if u == "" {
		return false
	}
	for _, alias := range textnorm.EnglishAliases(q.Item.EN) {
		a := textnorm.NormalizeEnglish(alias)
		if a == "" {
			continue
		}
		if u == a {
			return true
		}
		if g.substringOK(u, a) && (strings.Contains(u, a) || strings.Contains(a, u)) {
			return true
		}
	}
	return false
}

func (g Grader) substringOK(u, a string) bool {
	if g.MinSubstringLen <= 0 {
		return true
	}
	shorter := len([]rune(u))
	if l := len([]rune(a)); l < shorter {
		shorter = l
	}
	return shorter >= g.MinSubstringLen
}

func gradeSmartJapanese(q Question, raw string) bool {
	u := textnorm.NormalizeJapanese(raw)
	if u == "" {
		return false
	}
	for _, a := range vocab.AcceptableAnswers(q.Item, vocab.DisplayBoth) {
		if a = textnorm.NormalizeJapanese(a); a != "" && a == u {
			return true
		}
	}
	return false
}
