package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kat-hollis/vocabgarden/pkg/analyze"
	"github.com/kat-hollis/vocabgarden/pkg/dictionary"
	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

func testDict() *dictionary.Index {
	return dictionary.NewIndex([]dictionary.Entry{
		{
			ID:    "1",
			Kanji: []dictionary.Element{{Text: "猫", Common: true}},
			Kana:  []dictionary.Element{{Text: "ねこ", Common: true}},
			Sense: []dictionary.Sense{{Gloss: []dictionary.Gloss{{Text: "cat"}}}},
		},
		{
			ID:    "2",
			Kanji: []dictionary.Element{{Text: "食べる", Common: true}},
			Kana:  []dictionary.Element{{Text: "たべる", Common: true}},
			Sense: []dictionary.Sense{{Gloss: []dictionary.Gloss{{Text: "to eat"}}}},
		},
	})
}

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	a, err := analyze.New()
	if err != nil {
		t.Fatalf("analyze.New: %v", err)
	}
	ex := NewExtractor(a, testDict())
	ex.Logger = slog.New(slog.DiscardHandler)
	return ex
}

func TestExtractBuildsDraftItems(t *testing.T) {
	ex := newTestExtractor(t)
	items, err := ex.Extract(context.Background(), "猫が魚を食べた。猫は眠い。", "Lesson 9 Animals")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("no items extracted")
	}

	byKanji := map[string]vocab.Item{}
	for _, it := range items {
		byKanji[it.Kanji] = it
		if it.Lesson != "Lesson 9 Animals" {
			t.Errorf("item %s lesson = %q", it.ID, it.Lesson)
		}
		if !strings.HasPrefix(it.ID, "l9_") {
			t.Errorf("item id %q missing lesson code prefix", it.ID)
		}
	}

	neko, ok := byKanji["猫"]
	if !ok {
		t.Fatal("expected 猫 in extracted items")
	}
	if neko.Kana != "ねこ" {
		t.Errorf("猫 kana = %q", neko.Kana)
	}
	if neko.EN != "cat" {
		t.Errorf("猫 gloss = %q", neko.EN)
	}

	// First occurrence order: 猫 appears before 食べる.
	nekoIdx, taberuIdx := -1, -1
	for i, it := range items {
		switch it.Kanji {
		case "猫":
			nekoIdx = i
		case "食べる":
			taberuIdx = i
		}
	}
	if taberuIdx >= 0 && nekoIdx > taberuIdx {
		t.Errorf("item order does not follow article order: 猫 at %d, 食べる at %d", nekoIdx, taberuIdx)
	}
}

func TestExtractLemmatizesVerbs(t *testing.T) {
	ex := newTestExtractor(t)
	items, err := ex.Extract(context.Background(), "猫が魚を食べた。", "Lesson 9")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	found := false
	for _, it := range items {
		if it.Kanji == "食べる" {
			found = true
			if it.EN != "to eat" {
				t.Errorf("食べる gloss = %q", it.EN)
			}
		}
		if it.Kanji == "食べた" || it.Kanji == "食べ" {
			t.Errorf("unlemmatized form leaked: %q", it.Kanji)
		}
	}
	if !found {
		t.Error("expected lemma 食べる in extracted items")
	}
}

func TestExtractMinCount(t *testing.T) {
	ex := newTestExtractor(t)
	ex.MinCount = 2
	items, err := ex.Extract(context.Background(), "猫が好き。猫は眠い。魚も好き。", "Lesson 9")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for _, it := range items {
		if it.Kanji == "魚" {
			t.Error("single-occurrence word survived MinCount=2")
		}
	}
}

func TestDraftItemCollisionSuffix(t *testing.T) {
	ex := newTestExtractor(t)
	used := map[string]bool{}
	a := ex.draftItem("l1", "Lesson 1", &candidate{lemma: "橋", reading: "はし", count: 1}, used)
	b := ex.draftItem("l1", "Lesson 1", &candidate{lemma: "箸", reading: "はし", count: 1}, used)
	if a.ID == b.ID {
		t.Fatalf("colliding readings produced the same id %q", a.ID)
	}
	if !strings.HasPrefix(b.ID, a.ID+"_") {
		t.Errorf("second id %q should extend %q with a suffix", b.ID, a.ID)
	}
}

func TestReadArticleStripsFurigana(t *testing.T) {
	html := `<html><head><title>猫の記事</title></head><body><article><p>
	<ruby>猫<rt>ねこ</rt></ruby>は<ruby>魚<rt>さかな</rt></ruby>を食べる。
	それから長い昼寝をする。猫はとても幸せそうだった。</p></article></body></html>`

	article, err := ReadArticle(strings.NewReader(html), "http://localhost/neko")
	if err != nil {
		t.Fatalf("ReadArticle: %v", err)
	}
	if strings.Contains(article.Text, "猫ねこ") {
		t.Errorf("furigana duplicated into text: %q", article.Text)
	}
	if !strings.Contains(article.Text, "食べる") {
		t.Errorf("body text missing: %q", article.Text)
	}
}

func TestWriteLessonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lessons", "l9.json")
	items := []vocab.Item{
		{ID: "l9_ねこ", Lesson: "Lesson 9", EN: "cat", Kana: "ねこ", Kanji: "猫"},
	}
	if err := WriteLessonFile(path, items); err != nil {
		t.Fatalf("WriteLessonFile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []vocab.Item
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if len(got) != 1 || got[0].ID != "l9_ねこ" {
		t.Errorf("round trip = %+v", got)
	}
}
