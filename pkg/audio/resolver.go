// Package audio locates, plays and reconciles pronunciation recordings for
// vocabulary items. Files live in a single directory named <itemID>.<ext>;
// unnamed source recordings sit under a raw/ subdirectory until the
// reconciler matches them to items.
package audio

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Extensions lists the recognized audio file extensions in probe order.
var Extensions = []string{"wav", "mp3", "m4a", "ogg"}

// ReportFile is the reconcile report written next to the audio files. The
// resolver also reads it: recordings the reconciler could not copy (for
// example duplicates) stay reachable through their raw/ path.
const ReportFile = "audio_rename_report.json"

// Resolver maps item ids to audio file paths.
type Resolver struct {
	Dir string

	mu       sync.Mutex
	cache    map[string]string
	fallback map[string]string
	loaded   bool
}

// NewResolver returns a resolver over the given audio directory.
func NewResolver(dir string) *Resolver {
	return &Resolver{Dir: dir, cache: map[string]string{}}
}

// idVariants returns the ids to probe for. Items from the older jpln1200
// export carry ids whose audio files were shipped under the japn1200 prefix.
func idVariants(id string) []string {
	variants := []string{id}
	if strings.HasPrefix(id, "jpln1200_") {
		variants = append(variants, "japn1200_"+strings.TrimPrefix(id, "jpln1200_"))
	}
	return variants
}

// Resolve returns the path of the recording for id, or "" and false when no
// file exists. Results are cached until ClearCache.
func (r *Resolver) Resolve(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if path, ok := r.cache[id]; ok {
		return path, path != ""
	}

	for _, variant := range idVariants(id) {
		for _, ext := range Extensions {
			path := filepath.Join(r.Dir, variant+"."+ext)
			if fileExists(path) {
				r.cache[id] = path
				return path, true
			}
		}
	}

	if path := r.fallbackPath(id); path != "" && fileExists(path) {
		r.cache[id] = path
		return path, true
	}

	r.cache[id] = ""
	return "", false
}

// Has reports whether a recording exists for id.
func (r *Resolver) Has(id string) bool {
	_, ok := r.Resolve(id)
	return ok
}

// ExpectedFilename is the canonical name a missing recording should get.
func ExpectedFilename(id string) string {
	return id + "." + Extensions[0]
}

// ClearCache drops all cached lookups, including the fallback map.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = map[string]string{}
	r.fallback = nil
	r.loaded = false
}

// fallbackPath consults the reconcile report for the original location of a
// recording that was matched to id. Caller holds r.mu.
func (r *Resolver) fallbackPath(id string) string {
	if !r.loaded {
		r.loaded = true
		r.fallback = loadFallbackMap(filepath.Join(r.Dir, ReportFile), r.Dir)
	}
	return r.fallback[id]
}

func loadFallbackMap(reportPath, dir string) map[string]string {
	m := map[string]string{}
	report, err := ReadReport(reportPath)
	if err != nil {
		return m
	}
	for _, entry := range report.Renamed {
		if entry.ItemID == "" || entry.From == "" {
			continue
		}
		// Report paths are relative to the app root ("audio/raw/…").
		rel := strings.TrimPrefix(entry.From, "audio/")
		m[entry.ItemID] = filepath.Join(dir, filepath.FromSlash(rel))
	}
	return m
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
