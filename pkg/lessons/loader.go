// Package lessons loads the lesson index and vocabulary files, either from a
// local directory or over HTTP with a device-local cache so the quiz keeps
// working offline.
package lessons

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

// IndexFile is the well-known path of the lesson index under the source root.
const IndexFile = "lessons/index.json"

// Lesson is one entry of the lesson index.
type Lesson struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	File  string `json:"file"`
	Count int    `json:"count"`
}

type index struct {
	Lessons []Lesson `json:"lessons"`
}

// Loader reads the lesson index and each lesson's item file. When Source is
// an http(s) URL the fetch is network-first: fresh copies are written to
// CacheDir and the cached copy is served when the network is unavailable.
type Loader struct {
	Source   string // directory or http(s) base URL
	CacheDir string // used only for remote sources
	Client   *http.Client
	Logger   *slog.Logger
}

// NewLoader returns a loader with a sane HTTP timeout.
func NewLoader(source, cacheDir string) *Loader {
	return &Loader{
		Source:   source,
		CacheDir: cacheDir,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Logger:   slog.Default(),
	}
}

// Load reads the index and all lesson files, returning the lessons and the
// flattened item list in lesson order. Lessons with a missing code get one
// derived from their name.
func (l *Loader) Load(ctx context.Context) ([]Lesson, []vocab.Item, error) {
	raw, err := l.fetch(ctx, IndexFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load lesson index")
	}
	var idx index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, nil, errors.Wrap(err, "parse lesson index")
	}

	var items []vocab.Item
	seen := map[string]bool{}
	for i := range idx.Lessons {
		lesson := &idx.Lessons[i]
		if lesson.Code == "" {
			lesson.Code = vocab.LessonCode(lesson.Name)
		}
		raw, err := l.fetch(ctx, lesson.File)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "load lesson %s", lesson.Code)
		}
		var arr []vocab.Item
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, nil, errors.Wrapf(err, "parse lesson %s", lesson.Code)
		}
		for _, it := range arr {
			switch {
			case it.ID == "":
				l.Logger.Warn("skipping item without id", "lesson", lesson.Code)
				continue
			case seen[it.ID]:
				l.Logger.Warn("duplicate item id", "id", it.ID, "lesson", lesson.Code)
				continue
			case it.Kana == "":
				l.Logger.Warn("skipping item without kana", "id", it.ID)
				continue
			}
			seen[it.ID] = true
			items = append(items, it)
		}
	}
	return idx.Lessons, items, nil
}

// Refresh forces a refetch of the index and lesson files into the cache.
// It only applies to remote sources.
func (l *Loader) Refresh(ctx context.Context) error {
	if !l.remote() {
		return nil
	}
	_, _, err := l.Load(ctx)
	return err
}

func (l *Loader) remote() bool {
	return strings.HasPrefix(l.Source, "http://") || strings.HasPrefix(l.Source, "https://")
}

func (l *Loader) fetch(ctx context.Context, rel string) ([]byte, error) {
	if !l.remote() {
		return os.ReadFile(filepath.Join(l.Source, filepath.FromSlash(rel)))
	}

	raw, err := l.fetchRemote(ctx, rel)
	if err == nil {
		l.writeCache(rel, raw)
		return raw, nil
	}

	cached, cacheErr := os.ReadFile(l.cachePath(rel))
	if cacheErr != nil {
		return nil, errors.Wrapf(err, "fetch %s (no cached copy either)", rel)
	}
	l.Logger.Warn("network fetch failed, serving cached copy", "file", rel, "error", err)
	return cached, nil
}

func (l *Loader) fetchRemote(ctx context.Context, rel string) ([]byte, error) {
	url := strings.TrimRight(l.Source, "/") + "/" + rel
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "vocabgarden-cli")

	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (l *Loader) cachePath(rel string) string {
	return filepath.Join(l.CacheDir, filepath.FromSlash(rel))
}

func (l *Loader) writeCache(rel string, raw []byte) {
	if l.CacheDir == "" {
		return
	}
	path := l.cachePath(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Logger.Warn("cannot create cache dir", "error", err)
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		l.Logger.Warn("cannot write cache file", "file", rel, "error", err)
	}
}
