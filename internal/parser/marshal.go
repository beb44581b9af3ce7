package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zettelhub/zettel/internal/models"
)

// Marshal renders a Note to its canonical file form. The body always opens
// with an H1 matching the title and ends with the regenerated Links section.
func Marshal(note *models.Note) ([]byte, error) {
	fm := frontmatter{
		ID:       note.ID,
		Title:    note.Title,
		Type:     string(note.Type),
		Tags:     note.TagNames(),
		Created:  note.CreatedAt.Format(timeLayout),
		Updated:  note.UpdatedAt.Format(timeLayout),
		Metadata: note.Metadata,
	}
	header, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("parser: marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelim + "\n")
	b.Write(header)
	b.WriteString(frontmatterDelim + "\n\n")

	heading := "# " + note.Title
	if !strings.HasPrefix(note.Content, heading+"\n") && note.Content != heading {
		b.WriteString(heading + "\n\n")
	}
	if note.Content != "" {
		b.WriteString(strings.TrimRight(note.Content, "\n"))
		b.WriteString("\n")
	}

	// The heading is written even with zero links so that Parse can always
	// anchor on the trailing section and body prose under a "## Links"
	// heading of its own survives a round trip.
	b.WriteString("\n" + linksHeading + "\n")
	if len(note.Links) > 0 {
		b.WriteString("\n")
		for _, l := range note.Links {
			b.WriteString(formatLinkItem(l))
		}
	}

	return []byte(b.String()), nil
}

func formatLinkItem(l models.Link) string {
	if l.Description != "" {
		return fmt.Sprintf("- %s: %s %s\n", l.Type, l.TargetID, l.Description)
	}
	return fmt.Sprintf("- %s: %s\n", l.Type, l.TargetID)
}
