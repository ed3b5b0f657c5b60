// Package vocab reads vocabulary lists that tutors prepare outside a lesson.
package vocab

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned for a document without entries.
var ErrEmpty = errors.New("vocab: no entries")

// Entry is one vocabulary item of an import file.
type Entry struct {
	Term       string `yaml:"term" json:"term"`
	Correction string `yaml:"correction" json:"correction"`
	Context    string `yaml:"context" json:"context"`
	Note       string `yaml:"note" json:"note"`
}

// Document is the layout of an import file:
//
//	entries:
//	  - term: embarazada
//	    correction: avergonzada
//	    context: Estoy muy embarazada
type Document struct {
	Entries []Entry `yaml:"entries"`
}

// Parse decodes a YAML vocabulary document and trims every field. Entries
// with a blank term are kept so the importer can count them as skipped.
func Parse(r io.Reader) ([]Entry, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("yaml.NewDecoder().Decode()> %w", err)
	}
	if len(doc.Entries) == 0 {
		return nil, ErrEmpty
	}

	entries := make([]Entry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		entries = append(entries, Entry{
			Term:       strings.TrimSpace(e.Term),
			Correction: strings.TrimSpace(e.Correction),
			Context:    strings.TrimSpace(e.Context),
			Note:       strings.TrimSpace(e.Note),
		})
	}
	return entries, nil
}
