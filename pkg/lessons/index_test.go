package lessons

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestAppendLessonCreatesIndex(t *testing.T) {
	root := t.TempDir()
	err := AppendLesson(root, Lesson{Code: "l9", Name: "Lesson 9", File: "lessons/l9.json", Count: 3})
	if err != nil {
		t.Fatalf("AppendLesson: %v", err)
	}

	// The written index must load back through the loader.
	if err := os.WriteFile(filepath.Join(root, "lessons", "l9.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(root, "")
	lessons, _, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(lessons) != 1 || lessons[0].Code != "l9" {
		t.Fatalf("lessons = %+v", lessons)
	}
}

func TestAppendLessonReplacesExistingCode(t *testing.T) {
	root := t.TempDir()
	if err := AppendLesson(root, Lesson{Code: "l9", Name: "Lesson 9", File: "lessons/l9.json", Count: 3}); err != nil {
		t.Fatal(err)
	}
	if err := AppendLesson(root, Lesson{Code: "l9", Name: "Lesson 9 (revised)", File: "lessons/l9.json", Count: 5}); err != nil {
		t.Fatal(err)
	}
	if err := AppendLesson(root, Lesson{Code: "l10", Name: "Lesson 10", File: "lessons/l10.json", Count: 1}); err != nil {
		t.Fatal(err)
	}

	for _, f := range []string{"l9.json", "l10.json"} {
		if err := os.WriteFile(filepath.Join(root, "lessons", f), []byte(`[]`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	l := NewLoader(root, "")
	lessons, _, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(lessons) != 2 {
		t.Fatalf("got %d lessons, want 2", len(lessons))
	}
	if lessons[0].Count != 5 || lessons[0].Name != "Lesson 9 (revised)" {
		t.Errorf("l9 not replaced: %+v", lessons[0])
	}
}
