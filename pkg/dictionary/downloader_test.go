package dictionary

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDictionaryLocalFile(t *testing.T) {
	// An existing file short-circuits the download entirely.
	path := filepath.Join(t.TempDir(), "jmdict-eng-common.json")
	if err := os.WriteFile(path, []byte(`{"words":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDictionary(context.Background(), path); err != nil {
		t.Fatalf("EnsureDictionary with existing file: %v", err)
	}
}
