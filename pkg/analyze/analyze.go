// Package analyze wraps the kagome morphological tokenizer. The import
// pipeline uses it to pull candidate vocabulary out of article text, and the
// audio reconciler uses it to derive kana readings for filenames that carry
// kanji instead of kana.
package analyze

import (
	"regexp"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/kat-hollis/vocabgarden/pkg/textnorm"
)

// Token is a single analyzed unit of text.
type Token struct {
	Surface       string   // the text as written (e.g. "行っ")
	BaseForm      string   // the dictionary form (e.g. "行く")
	Reading       string   // katakana pronunciation (e.g. "イッ")
	PartsOfSpeech []string // kagome IPA POS labels, e.g. ["動詞", "自立", "*", "*"]
	PrimaryPOS    string   // first POS label when available
}

// Sentence is one sentence together with its tokens.
type Sentence struct {
	Text   string
	Tokens []Token
}

// Analyzer segments Japanese text into tokens.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// New creates a tokenizer backed by the IPA dictionary.
func New() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze breaks text into tokens with readings and base forms.
func (a *Analyzer) Analyze(text string) ([]Token, error) {
	tokens := a.t.Tokenize(text)
	var result []Token

	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// Kagome IPA feature layout: 0-3 POS labels, 4-5 conjugation,
		// 6 base form, 7 reading, 8 pronunciation.
		features := token.Features()

		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		primary := ""
		if len(features) > 0 {
			primary = features[0]
		}

		result = append(result, Token{
			Surface:       token.Surface,
			BaseForm:      base,
			Reading:       reading,
			PartsOfSpeech: features,
			PrimaryPOS:    primary,
		})
	}
	return result, nil
}

// AnalyzeDocument splits text into sentences and tokenizes each one.
func (a *Analyzer) AnalyzeDocument(text string) ([]Sentence, error) {
	var result []Sentence
	for _, s := range splitSentences(text) {
		if strings.TrimSpace(s) == "" {
			continue
		}
		tokens, err := a.Analyze(s)
		if err != nil {
			return nil, err
		}
		result = append(result, Sentence{Text: s, Tokens: tokens})
	}
	return result, nil
}

// Reading tokenizes text and returns the concatenated readings folded to
// hiragana. Tokens without a dictionary reading contribute their surface
// unchanged. The result is empty when nothing could be read.
func (a *Analyzer) Reading(text string) string {
	var b strings.Builder
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		features := token.Features()
		if len(features) > 7 && features[7] != "*" {
			b.WriteString(textnorm.ToHiragana(features[7]))
		} else {
			b.WriteString(token.Surface)
		}
	}
	return b.String()
}

// contentPOS are the primary POS labels worth surfacing as vocabulary
// candidates: nouns, verbs, adjectives and adverbs.
var contentPOS = map[string]bool{
	"名詞":  true,
	"動詞":  true,
	"形容詞": true,
	"副詞":  true,
}

// IsContentWord reports whether a token is a vocabulary candidate rather
// than a particle, auxiliary or symbol.
func IsContentWord(t Token) bool {
	if !contentPOS[t.PrimaryPOS] {
		return false
	}
	// Numbers and suffixes classify as 名詞 but make poor flashcards.
	if len(t.PartsOfSpeech) > 1 {
		switch t.PartsOfSpeech[1] {
		case "数", "接尾", "非自立", "代名詞":
			return false
		}
	}
	return true
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		// 。(3002), ！(FF01), ？(FF1F) and newlines end a sentence.
		if r == '。' || r == '！' || r == '？' || r == '\n' {
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

var (
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby strips ruby annotations (<rt>…</rt>, <rp>…</rp>) from HTML.
// Readability extracts all text including furigana, which would duplicate
// readings in the extracted body (e.g. "漢字" becoming "漢字かんじ").
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	return reRP.ReplaceAll(cleaned, []byte{})
}
