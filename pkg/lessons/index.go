package lessons

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// AppendLesson adds a lesson to the index under root, creating the index if
// needed. A lesson whose code already exists is replaced in place.
func AppendLesson(root string, lesson Lesson) error {
	path := filepath.Join(root, filepath.FromSlash(IndexFile))

	var idx index
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &idx); err != nil {
			return errors.Wrap(err, "parse lesson index")
		}
	case os.IsNotExist(err):
	default:
		return errors.Wrap(err, "read lesson index")
	}

	replaced := false
	for i := range idx.Lessons {
		if idx.Lessons[i].Code == lesson.Code {
			idx.Lessons[i] = lesson
			replaced = true
			break
		}
	}
	if !replaced {
		idx.Lessons = append(idx.Lessons, lesson)
	}

	out, err := json.MarshalIndent(&idx, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create lessons dir")
	}
	return errors.Wrap(os.WriteFile(path, out, 0o644), "write lesson index")
}
