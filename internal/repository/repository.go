// Package repository reconciles the file-backed note store with the SQLite
// index. Every mutation writes the file first, then upserts the index; reads
// come from the index for speed. Drift between the two (crash between steps,
// manual file edits) is corrected by Sync or RebuildIndex.
package repository

import (
	"fmt"
	"log/slog"

	"github.com/zettelhub/zettel/internal/apperr"
	"github.com/zettelhub/zettel/internal/index"
	"github.com/zettelhub/zettel/internal/models"
	"github.com/zettelhub/zettel/internal/notestore"
)

// Repository is the single point of truth over both stores.
type Repository struct {
	store  *notestore.Store
	idx    index.NoteIndex
	logger *slog.Logger
}

// New creates a Repository over the given stores.
func New(store *notestore.Store, idx index.NoteIndex, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, idx: idx, logger: logger}
}

// Create persists a new note to both stores. The id must not already exist.
func (r *Repository) Create(note *models.Note) (*models.Note, error) {
	if err := note.Validate(); err != nil {
		return nil, apperr.Validation("title", err.Error())
	}
	if r.store.Exists(note.ID) {
		return nil, fmt.Errorf("note %q: %w", note.ID, apperr.ErrAlreadyExists)
	}
	cs, err := r.store.Write(note)
	if err != nil {
		return nil, err
	}
	if err := r.idx.UpsertNote(note, cs); err != nil {
		return nil, err
	}
	return note, nil
}

// Get returns the note with the given id from the index.
func (r *Repository) Get(id string) (*models.Note, error) {
	return r.idx.GetNote(id)
}

// GetByTitle returns the note with an exactly matching title.
func (r *Repository) GetByTitle(title string) (*models.Note, error) {
	return r.idx.GetByTitle(title)
}

// GetAll returns every note ordered by id.
func (r *Repository) GetAll() ([]*models.Note, error) {
	return r.idx.AllNotes()
}

// Update overwrites an existing note in both stores. Tags and links are
// fully replaced.
func (r *Repository) Update(note *models.Note) (*models.Note, error) {
	if err := note.Validate(); err != nil {
		return nil, apperr.Validation("title", err.Error())
	}
	if !r.store.Exists(note.ID) {
		return nil, apperr.NotFound("note", note.ID)
	}
	cs, err := r.store.Write(note)
	if err != nil {
		return nil, err
	}
	if err := r.idx.UpsertNote(note, cs); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes the note from both stores. Links on other notes that
// point at the deleted id are left in place; they become detectable via
// BrokenLinks.
func (r *Repository) Delete(id string) error {
	if err := r.store.Delete(id); err != nil {
		return err
	}
	return r.idx.DeleteNote(id)
}

// FindByTag returns notes carrying the given tag.
func (r *Repository) FindByTag(name string) ([]*models.Note, error) {
	return r.idx.FindByTag(name)
}

// FindLinked returns notes connected to id in the given direction.
// The id must resolve to an existing note.
func (r *Repository) FindLinked(id string, dir index.Direction) ([]*models.Note, error) {
	if _, err := r.idx.GetNote(id); err != nil {
		return nil, err
	}
	return r.idx.FindLinked(id, dir)
}

// AllTags returns every distinct tag in use.
func (r *Repository) AllTags() ([]models.Tag, error) {
	return r.idx.AllTags()
}

// CountConnections exposes the index's aggregate connection counts.
func (r *Repository) CountConnections() (map[string]int, error) {
	return r.idx.CountConnections()
}

// Orphans returns notes with no incoming or outgoing links.
func (r *Repository) Orphans() ([]*models.Note, error) {
	return r.idx.Orphans()
}

// BrokenLinks returns links whose target does not resolve to a note.
func (r *Repository) BrokenLinks() ([]models.Link, error) {
	return r.idx.BrokenLinks()
}

// RebuildIndex drops the index and repopulates it strictly from the files.
// It is idempotent and is the official repair procedure when the stores
// drift. Returns the number of notes indexed.
func (r *Repository) RebuildIndex() (int, error) {
	if err := r.idx.Clear(); err != nil {
		return 0, err
	}
	ids, err := r.store.ListIDs()
	if err != nil {
		return 0, err
	}
	indexed := 0
	for _, id := range ids {
		if err := r.ReindexFile(id); err != nil {
			r.logger.Warn("rebuild: reindex failed",
				slog.String("id", id), slog.String("error", err.Error()))
			continue
		}
		indexed++
	}
	return indexed, nil
}

// Sync brings the index incrementally up to date with the vault:
// new or changed files are re-parsed and upserted, index entries whose
// files vanished are removed. Cheaper than RebuildIndex for routine drift.
func (r *Repository) Sync() error {
	ids, err := r.store.ListIDs()
	if err != nil {
		return err
	}
	checksums, err := r.idx.AllChecksums()
	if err != nil {
		return err
	}

	onDisk := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		onDisk[id] = struct{}{}

		note, cs, err := r.store.ReadWithChecksum(id)
		if err != nil {
			r.logger.Warn("sync: read failed", slog.String("id", id), slog.String("error", err.Error()))
			continue
		}
		if checksums[id] == cs {
			continue
		}
		if err := r.idx.UpsertNote(note, cs); err != nil {
			r.logger.Warn("sync: index failed", slog.String("id", id), slog.String("error", err.Error()))
		} else {
			r.logger.Debug("sync: indexed", slog.String("id", id))
		}
	}

	// Remove stale entries.
	for id := range checksums {
		if _, ok := onDisk[id]; !ok {
			if err := r.idx.DeleteNote(id); err != nil {
				r.logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			} else {
				r.logger.Debug("sync: removed stale", slog.String("id", id))
			}
		}
	}
	return nil
}

// ReindexFile re-parses a single note file and upserts it into the index.
func (r *Repository) ReindexFile(id string) error {
	note, cs, err := r.store.ReadWithChecksum(id)
	if err != nil {
		return err
	}
	return r.idx.UpsertNote(note, cs)
}

// DropFromIndex removes a note from the index only. Used by the watcher
// when a file disappears from the vault.
func (r *Repository) DropFromIndex(id string) error {
	return r.idx.DeleteNote(id)
}
