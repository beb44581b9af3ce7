package index

import (
	"fmt"
	"time"

	"github.com/zettelhub/zettel/internal/models"
)

// CountConnections computes outgoing plus incoming link counts for every
// note in one aggregate pass over the links table. Notes without any
// connection are absent from the result.
func (db *DB) CountConnections() (map[string]int, error) {
	rows, err := db.conn.Query(`
		WITH outgoing AS (
			SELECT source AS note_id, COUNT(*) AS cnt FROM links GROUP BY source
		),
		incoming AS (
			SELECT target AS note_id, COUNT(*) AS cnt FROM links GROUP BY target
		)
		SELECT n.id, COALESCE(o.cnt, 0) + COALESCE(i.cnt, 0) AS total
		FROM notes n
		LEFT JOIN outgoing o ON n.id = o.note_id
		LEFT JOIN incoming i ON n.id = i.note_id
		WHERE COALESCE(o.cnt, 0) + COALESCE(i.cnt, 0) > 0
	`)
	if err != nil {
		return nil, fmt.Errorf("index: count connections: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			id    string
			total int
		)
		if err := rows.Scan(&id, &total); err != nil {
			return nil, err
		}
		out[id] = total
	}
	return out, rows.Err()
}

// Orphans returns notes that appear in neither the source nor the target
// position of any link.
func (db *DB) Orphans() ([]*models.Note, error) {
	return db.queryNotes(`
		WHERE n.id NOT IN (SELECT source FROM links)
		  AND n.id NOT IN (SELECT target FROM links)
		ORDER BY n.id
	`)
}

// BrokenLinks returns every link whose target id does not resolve to an
// indexed note.
func (db *DB) BrokenLinks() ([]models.Link, error) {
	rows, err := db.conn.Query(`
		SELECT l.source, l.target, l.type, l.description, l.created_at
		FROM links l
		LEFT JOIN notes n ON l.target = n.id
		WHERE n.id IS NULL
		ORDER BY l.source, l.target
	`)
	if err != nil {
		return nil, fmt.Errorf("index: broken links: %w", err)
	}
	defer rows.Close()

	var out []models.Link
	for rows.Next() {
		var (
			l         models.Link
			linkType  string
			createdAt time.Time
		)
		if err := rows.Scan(&l.SourceID, &l.TargetID, &linkType, &l.Description, &createdAt); err != nil {
			return nil, err
		}
		l.Type = models.LinkType(linkType)
		l.CreatedAt = createdAt
		out = append(out, l)
	}
	return out, rows.Err()
}
