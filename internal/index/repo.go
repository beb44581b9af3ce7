package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zettelhub/zettel/internal/apperr"
	"github.com/zettelhub/zettel/internal/models"
)

// UpsertNote inserts or replaces a note, its tags, and its outgoing links
// within a transaction. Tags and links are fully replaced, not diffed.
func (db *DB) UpsertNote(note *models.Note, checksum string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	metaJSON, err := json.Marshal(note.Metadata)
	if err != nil {
		return fmt.Errorf("index: marshal metadata: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO notes (id, title, note_type, content, checksum, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title      = excluded.title,
			note_type  = excluded.note_type,
			content    = excluded.content,
			checksum   = excluded.checksum,
			metadata   = excluded.metadata,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, note.ID, note.Title, string(note.Type), note.Content, checksum, string(metaJSON),
		note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// Replace tags: delete old then bulk insert.
	if _, err := tx.Exec(`DELETE FROM tags WHERE note_id = ?`, note.ID); err != nil {
		return fmt.Errorf("index: clear tags: %w", err)
	}
	for _, t := range note.Tags {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO tags (note_id, name) VALUES (?, ?)`, note.ID, t.Name); err != nil {
			return fmt.Errorf("index: insert tag: %w", err)
		}
	}

	// Replace links. INSERT OR IGNORE makes a duplicate (source, target,
	// type) a no-op, matching note-level link semantics.
	if _, err := tx.Exec(`DELETE FROM links WHERE source = ?`, note.ID); err != nil {
		return fmt.Errorf("index: clear links: %w", err)
	}
	for _, l := range note.Links {
		_, err := tx.Exec(`
			INSERT OR IGNORE INTO links (source, target, type, description, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, note.ID, l.TargetID, string(l.Type), l.Description, l.CreatedAt)
		if err != nil {
			return fmt.Errorf("index: insert link: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note, its tags, and its outgoing links. Incoming
// links from other notes are kept; they become detectable as broken.
func (db *DB) DeleteNote(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, _ = tx.Exec(`DELETE FROM tags WHERE note_id = ?`, id)
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, id)
	_, _ = tx.Exec(`DELETE FROM notes WHERE id = ?`, id)

	return tx.Commit()
}

// GetNote returns the indexed note with the given id.
func (db *DB) GetNote(id string) (*models.Note, error) {
	notes, err := db.queryNotes(`WHERE n.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, apperr.NotFound("note", id)
	}
	return notes[0], nil
}

// GetByTitle returns the first note with an exactly matching title.
func (db *DB) GetByTitle(title string) (*models.Note, error) {
	notes, err := db.queryNotes(`WHERE n.title = ? ORDER BY n.id LIMIT 1`, title)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, apperr.NotFound("note with title", title)
	}
	return notes[0], nil
}

// AllNotes returns every indexed note ordered by id (creation order).
func (db *DB) AllNotes() ([]*models.Note, error) {
	return db.queryNotes(`ORDER BY n.id`)
}

// FindByTag returns notes carrying the given tag, ordered by id.
func (db *DB) FindByTag(name string) ([]*models.Note, error) {
	return db.queryNotes(`WHERE n.id IN (SELECT note_id FROM tags WHERE name = ?) ORDER BY n.id`, name)
}

// FindLinked returns notes connected to id in the given direction.
func (db *DB) FindLinked(id string, dir Direction) ([]*models.Note, error) {
	var clause string
	args := []any{}
	switch dir {
	case Outgoing:
		clause = `WHERE n.id IN (SELECT target FROM links WHERE source = ?) ORDER BY n.id`
		args = append(args, id)
	case Incoming:
		clause = `WHERE n.id IN (SELECT source FROM links WHERE target = ?) ORDER BY n.id`
		args = append(args, id)
	case Both:
		clause = `WHERE n.id IN (
			SELECT target FROM links WHERE source = ?
			UNION
			SELECT source FROM links WHERE target = ?
		) ORDER BY n.id`
		args = append(args, id, id)
	default:
		return nil, fmt.Errorf("index: invalid direction %q", dir)
	}
	return db.queryNotes(clause, args...)
}

// AllTags returns the distinct tag names in use, ordered by name.
func (db *DB) AllTags() ([]models.Tag, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("index: all tags: %w", err)
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, models.Tag{Name: name})
	}
	return out, rows.Err()
}

// AllChecksums returns every indexed note id mapped to its file checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

// Clear drops all indexed data. Used by rebuild before re-scanning the vault.
func (db *DB) Clear() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"links", "tags", "notes"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("index: clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// queryNotes runs a SELECT over the notes table with the given clause and
// hydrates tags and links for each row.
func (db *DB) queryNotes(clause string, args ...any) ([]*models.Note, error) {
	q := `SELECT n.id, n.title, n.note_type, n.content, n.metadata, n.created_at, n.updated_at FROM notes n ` + clause
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("index: query notes: %w", err)
	}
	defer rows.Close()

	var out []*models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, n := range out {
		if err := db.hydrate(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func scanNote(rows *sql.Rows) (*models.Note, error) {
	var (
		n        models.Note
		noteType string
		metaJSON string
	)
	if err := rows.Scan(&n.ID, &n.Title, &noteType, &n.Content, &metaJSON, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, fmt.Errorf("index: scan note: %w", err)
	}
	n.Type = models.NoteType(noteType)
	if metaJSON != "" && metaJSON != "{}" && metaJSON != "null" {
		if err := json.Unmarshal([]byte(metaJSON), &n.Metadata); err != nil {
			return nil, fmt.Errorf("index: unmarshal metadata: %w", err)
		}
	}
	return &n, nil
}

// hydrate attaches tags and outgoing links to a scanned note.
func (db *DB) hydrate(n *models.Note) error {
	tagRows, err := db.conn.Query(`SELECT name FROM tags WHERE note_id = ? ORDER BY rowid`, n.ID)
	if err != nil {
		return fmt.Errorf("index: note tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var name string
		if err := tagRows.Scan(&name); err != nil {
			return err
		}
		n.Tags = append(n.Tags, models.Tag{Name: name})
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	linkRows, err := db.conn.Query(`
		SELECT target, type, description, created_at
		FROM links WHERE source = ? ORDER BY rowid
	`, n.ID)
	if err != nil {
		return fmt.Errorf("index: note links: %w", err)
	}
	defer linkRows.Close()
	for linkRows.Next() {
		var (
			l         models.Link
			linkType  string
			createdAt time.Time
		)
		if err := linkRows.Scan(&l.TargetID, &linkType, &l.Description, &createdAt); err != nil {
			return err
		}
		l.SourceID = n.ID
		l.Type = models.LinkType(linkType)
		l.CreatedAt = createdAt
		n.Links = append(n.Links, l)
	}
	return linkRows.Err()
}

// IsNotFound reports whether err denotes a missing index entry.
func IsNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}
