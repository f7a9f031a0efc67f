// Package ingest turns Japanese articles into draft vocabulary lessons. An
// article's body is extracted with readability, tokenized, filtered down to
// content words, glossed from the dictionary and written out as a lesson
// file ready for manual cleanup.
package ingest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/go-shiori/go-readability"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/kat-hollis/vocabgarden/pkg/analyze"
	"github.com/kat-hollis/vocabgarden/pkg/dictionary"
	"github.com/kat-hollis/vocabgarden/pkg/textnorm"
	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

// asciiRe matches tokens with no Japanese content at all.
var asciiRe = regexp.MustCompile(`^[a-zA-Z0-9\s[:punct:]]+$`)

// Extractor builds draft vocabulary items from article text.
type Extractor struct {
	Analyzer *analyze.Analyzer
	Dict     *dictionary.Index // optional; items get empty glosses without it
	Workers  int
	MinCount int // drop words occurring fewer times; zero keeps everything
	Logger   *slog.Logger

	// OnProgress is called after each analyzed sentence.
	OnProgress func(current, total int)
}

// NewExtractor returns an extractor with default concurrency.
func NewExtractor(a *analyze.Analyzer, dict *dictionary.Index) *Extractor {
	return &Extractor{
		Analyzer: a,
		Dict:     dict,
		Workers:  4,
		Logger:   slog.Default(),
	}
}

// Article is the readable part of a fetched page.
type Article struct {
	Title string
	Text  string
}

// ReadArticle extracts the readable body from HTML, stripping furigana ruby
// annotations first so readings are not duplicated into the text.
func ReadArticle(r io.Reader, pageURL string) (*Article, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse article url")
	}
	sanitized := analyze.SanitizeRuby(raw)
	article, err := readability.FromReader(strings.NewReader(string(sanitized)), u)
	if err != nil {
		return nil, errors.Wrap(err, "extract readable content")
	}
	return &Article{Title: article.Title, Text: article.TextContent}, nil
}

// candidate is one content word accumulated across the article.
type candidate struct {
	surface string
	lemma   string
	reading string // hiragana
	count   int
}

// Extract tokenizes text and returns draft items for lessonName. Item ids
// derive from the lesson code and the word's kana; collisions get a short
// random suffix. Word order follows first occurrence in the article.
func (ex *Extractor) Extract(ctx context.Context, text, lessonName string) ([]vocab.Item, error) {
	sentences, err := ex.Analyzer.AnalyzeDocument(text)
	if err != nil {
		return nil, errors.Wrap(err, "analyze article")
	}

	perSentence := make([][]candidate, len(sentences))
	var done sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := NewWorkerPool(ex.Workers, ex.Workers*2)
	pool.Start(ctx)

	var progressMu sync.Mutex
	analyzed := 0

	for i := range sentences {
		idx := i
		done.Add(1)
		job := func(ctx context.Context) error {
			defer done.Done()
			perSentence[idx] = sentenceCandidates(sentences[idx])
			if ex.OnProgress != nil {
				progressMu.Lock()
				analyzed++
				current := analyzed
				progressMu.Unlock()
				ex.OnProgress(current, len(sentences))
			}
			return nil
		}
		if err := pool.SubmitCtx(ctx, job); err != nil {
			done.Done()
			pool.Close()
			return nil, err
		}
	}
	pool.Close()
	done.Wait()

	// Merge in sentence order so item order matches the article.
	merged := map[string]*candidate{}
	var order []string
	for _, cands := range perSentence {
		for _, c := range cands {
			if existing, ok := merged[c.lemma]; ok {
				existing.count += c.count
				if existing.reading == "" {
					existing.reading = c.reading
				}
				continue
			}
			cc := c
			merged[c.lemma] = &cc
			order = append(order, c.lemma)
		}
	}

	code := vocab.LessonCode(lessonName)
	usedIDs := map[string]bool{}
	var items []vocab.Item
	for _, lemma := range order {
		c := merged[lemma]
		if ex.MinCount > 0 && c.count < ex.MinCount {
			continue
		}
		items = append(items, ex.draftItem(code, lessonName, c, usedIDs))
	}
	return items, nil
}

func sentenceCandidates(s analyze.Sentence) []candidate {
	counts := map[string]*candidate{}
	var order []string
	for _, t := range s.Tokens {
		if !analyze.IsContentWord(t) {
			continue
		}
		if asciiRe.MatchString(t.Surface) {
			continue
		}
		lemma := t.Surface
		if t.BaseForm != "" && t.BaseForm != "*" {
			lemma = t.BaseForm
		}
		if c, ok := counts[lemma]; ok {
			c.count++
			if c.reading == "" {
				c.reading = textnorm.ToHiragana(t.Reading)
			}
			continue
		}
		counts[lemma] = &candidate{
			surface: t.Surface,
			lemma:   lemma,
			reading: textnorm.ToHiragana(t.Reading),
			count:   1,
		}
		order = append(order, lemma)
	}

	result := make([]candidate, 0, len(order))
	for _, lemma := range order {
		result = append(result, *counts[lemma])
	}
	return result
}

func (ex *Extractor) draftItem(code, lessonName string, c *candidate, usedIDs map[string]bool) vocab.Item {
	kana := c.reading
	en := ""
	if ex.Dict != nil {
		if e, ok := ex.Dict.Best(c.surface, c.lemma, c.reading); ok {
			en = dictionary.FirstGloss(e)
			// The dictionary reading belongs to the lemma; token readings
			// follow the conjugated surface.
			if k := dictionary.PrimaryKana(e); k != "" {
				kana = textnorm.ToHiragana(k)
			}
		}
	}
	if en == "" && ex.Logger != nil {
		ex.Logger.Debug("no gloss found", "word", c.lemma)
	}
	if kana == "" {
		kana = c.lemma
	}
	kanji := ""
	if c.lemma != kana {
		kanji = c.lemma
	}

	id := code + "_" + textnorm.NormalizeJapanese(kana)
	if usedIDs[id] {
		id = id + "_" + shortuuid.New()[:6]
	}
	usedIDs[id] = true

	return vocab.Item{
		ID:     id,
		Lesson: lessonName,
		EN:     en,
		Kana:   kana,
		Kanji:  kanji,
	}
}

// WriteLessonFile writes items as a lesson JSON array.
func WriteLessonFile(path string, items []vocab.Item) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create lesson dir")
	}
	return errors.Wrap(os.WriteFile(path, raw, 0o644), "write lesson file")
}
