package index

import (
	"fmt"
	"strings"

	"github.com/zettelhub/zettel/internal/models"
)

// Direction selects which side of the link graph a traversal follows.
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
	Both     Direction = "both"
)

// ParseDirection maps a caller-supplied string to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Outgoing:
		return Outgoing, nil
	case Incoming:
		return Incoming, nil
	case Both, "":
		return Both, nil
	}
	return "", fmt.Errorf("unknown direction %q (valid: outgoing, incoming, both)", s)
}

// NoteIndex defines the interface for index operations. Consumers should
// depend on this interface rather than the concrete *DB type to facilitate
// testing with mocks.
type NoteIndex interface {
	UpsertNote(note *models.Note, checksum string) error
	DeleteNote(id string) error
	GetNote(id string) (*models.Note, error)
	GetByTitle(title string) (*models.Note, error)
	AllNotes() ([]*models.Note, error)
	FindByTag(name string) ([]*models.Note, error)
	FindLinked(id string, dir Direction) ([]*models.Note, error)
	CountConnections() (map[string]int, error)
	AllTags() ([]models.Tag, error)
	AllChecksums() (map[string]string, error)
	Orphans() ([]*models.Note, error)
	BrokenLinks() ([]models.Link, error)
	Clear() error
	Close() error
}

// Verify *DB satisfies NoteIndex at compile time.
var _ NoteIndex = (*DB)(nil)
