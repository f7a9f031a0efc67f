package vocab

import (
	"reflect"
	"testing"
)

func TestLessonCode(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Pre-lessons", "pre"},
		{"PRELIMINARY", "pre"},
		{"Lesson 1", "l1"},
		{"lesson 3.1", "l3_1"},
		{"Lesson12", "l12"},
		{"Extra vocab", "misc"},
		{"", "misc"},
	}
	for _, c := range cases {
		if got := LessonCode(c.name); got != c.want {
			t.Errorf("LessonCode(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	it := Item{ID: "x", Kana: "たべる", Kanji: "食べる"}
	if got := Display(it, DisplayKana); got != "たべる" {
		t.Errorf("kana display = %q", got)
	}
	if got := Display(it, DisplayKanji); got != "食べる" {
		t.Errorf("kanji display = %q", got)
	}
	if got := Display(it, DisplayBoth); got != "たべる（食べる）" {
		t.Errorf("both display = %q", got)
	}

	noKanji := Item{ID: "y", Kana: "すし"}
	if got := Display(noKanji, DisplayKanji); got != "すし" {
		t.Errorf("kanji fallback = %q", got)
	}
	if got := Display(noKanji, DisplayBoth); got != "すし" {
		t.Errorf("both without kanji = %q", got)
	}

	same := Item{ID: "z", Kana: "すし", Kanji: "すし"}
	if got := Display(same, DisplayBoth); got != "すし" {
		t.Errorf("both with identical kanji = %q", got)
	}
}

func TestAcceptableAnswers(t *testing.T) {
	it := Item{ID: "x", Kana: "たべる", Kanji: "食べる"}
	if got := AcceptableAnswers(it, DisplayBoth); !reflect.DeepEqual(got, []string{"たべる", "食べる"}) {
		t.Errorf("both = %v", got)
	}
	if got := AcceptableAnswers(it, DisplayKana); !reflect.DeepEqual(got, []string{"たべる"}) {
		t.Errorf("kana = %v", got)
	}
	if got := AcceptableAnswers(it, DisplayKanji); !reflect.DeepEqual(got, []string{"食べる"}) {
		t.Errorf("kanji = %v", got)
	}
	noKanji := Item{ID: "y", Kana: "すし"}
	if got := AcceptableAnswers(noKanji, DisplayBoth); !reflect.DeepEqual(got, []string{"すし"}) {
		t.Errorf("both without kanji = %v", got)
	}
}

func TestEffectiveDisplayMode(t *testing.T) {
	it := Item{ID: "x", Kana: "たべる", Kanji: "食べる"}
	overrides := map[string]bool{"x": true}
	if got := EffectiveDisplayMode(it, DisplayKana, overrides); got != DisplayKanji {
		t.Errorf("override should force kanji, got %v", got)
	}
	if got := EffectiveDisplayMode(it, DisplayKana, nil); got != DisplayKana {
		t.Errorf("no override should keep global mode, got %v", got)
	}
}

func TestFilter(t *testing.T) {
	items := []Item{
		{ID: "a", Lesson: "Lesson 1", Kana: "あ"},
		{ID: "b", Lesson: "Lesson 2", Kana: "い"},
		{ID: "c", Lesson: "Lesson 1", Kana: "う"},
	}
	codes := map[string]bool{"l1": true}
	got := Filter(items, codes, nil, false)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("lesson filter = %v", got)
	}

	starred := map[string]bool{"c": true}
	got = Filter(items, codes, starred, true)
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("starred filter = %v", got)
	}

	got = Filter(items, nil, nil, false)
	if len(got) != 3 {
		t.Fatalf("nil codes should select all, got %v", got)
	}
}

func TestResolvedAudioID(t *testing.T) {
	if got := (Item{ID: "a"}).ResolvedAudioID(); got != "a" {
		t.Errorf("fallback audio id = %q", got)
	}
	if got := (Item{ID: "a", AudioID: "b"}).ResolvedAudioID(); got != "b" {
		t.Errorf("explicit audio id = %q", got)
	}
}
