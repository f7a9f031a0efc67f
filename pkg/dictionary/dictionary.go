// Package dictionary loads the jmdict-simplified dictionary and looks up
// English glosses for Japanese terms. The import pipeline uses it to put a
// first-draft translation on extracted vocabulary.
package dictionary

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Entry matches the structure of jmdict-simplified entries.
type Entry struct {
	ID    string    `json:"id"`
	Kanji []Element `json:"kanji"`
	Kana  []Element `json:"kana"`
	Sense []Sense   `json:"sense"`
}

type Element struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type Sense struct {
	PartOfSpeech []string `json:"partOfSpeech"`
	Gloss        []Gloss  `json:"gloss"`
}

type Gloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"` // defaults to 'eng' when missing
}

// Load reads a jmdict-simplified JSON file. Release files wrap the entries
// in an object ({"words": [...]}), but a bare array is accepted too.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var wrapper struct {
		Words []Entry `json:"words"`
	}
	dec := json.NewDecoder(f)
	if err := dec.Decode(&wrapper); err == nil && len(wrapper.Words) > 0 {
		return wrapper.Words, nil
	}

	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "parse dictionary as object or array")
	}
	return entries, nil
}
