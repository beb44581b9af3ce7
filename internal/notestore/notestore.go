// Package notestore persists notes as one human-editable Markdown file per
// note. The files are the durable source of truth; the relational index is
// derived from them.
package notestore

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zettelhub/zettel/internal/apperr"
	"github.com/zettelhub/zettel/internal/checksum"
	"github.com/zettelhub/zettel/internal/models"
	"github.com/zettelhub/zettel/internal/parser"
	"github.com/zettelhub/zettel/internal/storage"
)

// Store reads and writes note files through a storage.Provider.
type Store struct {
	files storage.Provider
}

// New creates a Store over the given file provider.
func New(files storage.Provider) *Store {
	return &Store{files: files}
}

// Filename derives the deterministic file name for a note id, so that
// repeated scans are idempotent.
func Filename(id string) string {
	return id + ".md"
}

// idFromFilename is the inverse of Filename.
func idFromFilename(name string) string {
	return strings.TrimSuffix(name, ".md")
}

// Write serializes the note and persists it, returning the checksum of the
// written bytes so callers can record it in the index.
func (s *Store) Write(note *models.Note) (string, error) {
	data, err := parser.Marshal(note)
	if err != nil {
		return "", err
	}
	if err := s.files.Write(Filename(note.ID), data); err != nil {
		return "", fmt.Errorf("notestore: write %s: %w", note.ID, err)
	}
	return checksum.Sum(data), nil
}

// Read parses the file for id back into a full Note.
func (s *Store) Read(id string) (*models.Note, error) {
	note, _, err := s.ReadWithChecksum(id)
	return note, err
}

// ReadWithChecksum reads and parses a note, also returning the checksum of
// the raw file bytes.
func (s *Store) ReadWithChecksum(id string) (*models.Note, string, error) {
	data, err := s.files.Read(Filename(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", apperr.NotFound("note", id)
		}
		return nil, "", err
	}
	note, err := parser.Parse(data)
	if err != nil {
		return nil, "", err
	}
	return note, checksum.Sum(data), nil
}

// Delete removes the note file.
func (s *Store) Delete(id string) error {
	if err := s.files.Delete(Filename(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.NotFound("note", id)
		}
		return err
	}
	return nil
}

// Exists reports whether a file for id is present.
func (s *Store) Exists(id string) bool {
	_, err := s.files.Read(Filename(id))
	return err == nil
}

// ListIDs enumerates the ids of all persisted notes.
func (s *Store) ListIDs() ([]string, error) {
	paths, err := s.files.List()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		ids = append(ids, idFromFilename(p))
	}
	return ids, nil
}
