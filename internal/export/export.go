// Package export renders the knowledge base to a browsable directory tree
// of cross-linked Markdown files, grouped by note type.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/zettelhub/zettel/internal/models"
	"github.com/zettelhub/zettel/internal/zettel"
)

var unsafeFilenameRe = regexp.MustCompile(`[^a-z0-9-]+`)

// subdirs maps note types to their export subdirectory.
var subdirs = map[models.NoteType]string{
	models.NoteHub:        "hub_notes",
	models.NoteStructure:  "structure_notes",
	models.NotePermanent:  "permanent_notes",
	models.NoteLiterature: "literature_notes",
	models.NoteFleeting:   "fleeting_notes",
}

// typeOrder fixes the section order of the index file.
var typeOrder = []models.NoteType{
	models.NoteHub,
	models.NoteStructure,
	models.NotePermanent,
	models.NoteLiterature,
	models.NoteFleeting,
}

// Service exports the Zettelkasten via the zettel service.
type Service struct {
	zettel *zettel.Service
}

// NewService creates an export Service.
func NewService(zs *zettel.Service) *Service {
	return &Service{zettel: zs}
}

// ToMarkdown writes every note into dir, one file per note under a
// per-type subdirectory, with link references rewritten to relative
// Markdown links, plus an index.md entry point. When clean is set the
// directory contents are removed first. Returns the number of notes
// exported.
func (s *Service) ToMarkdown(dir string, clean bool) (int, error) {
	if dir == "" {
		return 0, fmt.Errorf("export: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("export: mkdir: %w", err)
	}
	if clean {
		if err := cleanDir(dir); err != nil {
			return 0, err
		}
	}

	notes, err := s.zettel.GetAllNotes()
	if err != nil {
		return 0, err
	}

	// First pass: map ids to export-relative paths.
	relPaths := make(map[string]string, len(notes))
	for _, n := range notes {
		name := fmt.Sprintf("%s_%s.md", n.ID, sanitizeFilename(n.Title))
		relPaths[n.ID] = filepath.Join(subdirs[n.Type], name)
	}

	// Second pass: write each note.
	for _, n := range notes {
		path := filepath.Join(dir, relPaths[n.ID])
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return 0, fmt.Errorf("export: mkdir: %w", err)
		}
		if err := os.WriteFile(path, renderNote(n, relPaths), 0o644); err != nil {
			return 0, fmt.Errorf("export: write %s: %w", n.ID, err)
		}
	}

	indexPath := filepath.Join(dir, "index.md")
	if err := os.WriteFile(indexPath, renderIndex(notes, relPaths), 0o644); err != nil {
		return 0, fmt.Errorf("export: write index: %w", err)
	}
	return len(notes), nil
}

// renderNote produces the export form of a note: frontmatter, title
// heading, body, and a Links section pointing at exported files.
func renderNote(n *models.Note, relPaths map[string]string) []byte {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", n.Title)
	fmt.Fprintf(&b, "note_type: %s\n", n.Type)
	if len(n.Tags) > 0 {
		fmt.Fprintf(&b, "tags: %s\n", strings.Join(n.TagNames(), ", "))
	}
	fmt.Fprintf(&b, "created: %s\n", n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "updated: %s\n", n.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", n.Title)
	if n.Content != "" {
		b.WriteString(strings.TrimRight(n.Content, "\n"))
		b.WriteString("\n")
	}

	if len(n.Links) > 0 {
		b.WriteString("\n## Links\n\n")
		for _, l := range n.Links {
			target, ok := relPaths[l.TargetID]
			if !ok {
				// Broken link: keep the reference visible but unlinked.
				fmt.Fprintf(&b, "- %s: %s (missing)\n", l.Type, l.TargetID)
				continue
			}
			// Links are one directory deep, so the relative path climbs
			// one level.
			fmt.Fprintf(&b, "- %s: [%s](../%s)", l.Type, l.TargetID, filepath.ToSlash(target))
			if l.Description != "" {
				fmt.Fprintf(&b, " %s", l.Description)
			}
			b.WriteString("\n")
		}
	}
	return []byte(b.String())
}

// renderIndex produces the index.md entry point, grouped by note type.
func renderIndex(notes []*models.Note, relPaths map[string]string) []byte {
	byType := make(map[models.NoteType][]*models.Note)
	for _, n := range notes {
		byType[n.Type] = append(byType[n.Type], n)
	}

	var b strings.Builder
	b.WriteString("# Zettelkasten\n")
	for _, t := range typeOrder {
		group := byType[t]
		if len(group) == 0 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		fmt.Fprintf(&b, "\n## %s notes\n\n", capitalize(string(t)))
		for _, n := range group {
			fmt.Fprintf(&b, "- [%s](%s)\n", n.Title, filepath.ToSlash(relPaths[n.ID]))
		}
	}
	return []byte(b.String())
}

func cleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("export: read dir: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("export: clean: %w", err)
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// sanitizeFilename lowercases the title and collapses anything outside
// [a-z0-9-] into single hyphens.
func sanitizeFilename(title string) string {
	s := strings.ToLower(title)
	s = unsafeFilenameRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}
