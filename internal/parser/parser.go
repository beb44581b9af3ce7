// Package parser converts between Note domain objects and their canonical
// Markdown file form: YAML frontmatter, an H1 title heading, the body, and
// a trailing "## Links" section.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zettelhub/zettel/internal/models"
)

var linkItemRe = regexp.MustCompile(`^- ([a-z_]+): (\S+)(?:\s+(.*))?$`)

const (
	frontmatterDelim = "---"
	linksHeading     = "## Links"
	timeLayout       = time.RFC3339
)

// frontmatter is the YAML header block of a note file. Field order here is
// the order written to disk.
type frontmatter struct {
	ID       string         `yaml:"id"`
	Title    string         `yaml:"title"`
	Type     string         `yaml:"note_type"`
	Tags     []string       `yaml:"tags,omitempty"`
	Created  string         `yaml:"created"`
	Updated  string         `yaml:"updated"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

// Parse reconstructs a Note from raw file bytes. It is the inverse of
// Marshal: title, type, tags, content, links, and metadata round-trip.
func Parse(data []byte) (*models.Note, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}
	if fm.ID == "" {
		return nil, fmt.Errorf("parser: missing id in frontmatter")
	}

	noteType, err := models.ParseNoteType(fm.Type)
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}

	created, err := parseTime(fm.Created)
	if err != nil {
		return nil, fmt.Errorf("parser: created: %w", err)
	}
	updated, err := parseTime(fm.Updated)
	if err != nil {
		return nil, fmt.Errorf("parser: updated: %w", err)
	}

	content, links := splitLinks(body, fm.ID, created)
	content = stripTitleHeading(content, fm.Title)

	note := &models.Note{
		ID:        fm.ID,
		Title:     fm.Title,
		Content:   content,
		Type:      noteType,
		CreatedAt: created,
		UpdatedAt: updated,
		Metadata:  fm.Metadata,
		Links:     links,
	}
	for _, name := range fm.Tags {
		note.Tags = append(note.Tags, models.Tag{Name: name})
	}
	return note, nil
}

// splitFrontmatter separates the YAML header (between leading --- delimiters)
// from the Markdown body.
func splitFrontmatter(data []byte) (*frontmatter, string, error) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(frontmatterDelim)) {
		return nil, "", fmt.Errorf("parser: missing frontmatter delimiter")
	}

	rest := trimmed[len(frontmatterDelim):]
	idx := bytes.Index(rest, []byte("\n"+frontmatterDelim))
	if idx < 0 {
		return nil, "", fmt.Errorf("parser: unterminated frontmatter")
	}

	var fm frontmatter
	if err := yaml.Unmarshal(rest[:idx], &fm); err != nil {
		return nil, "", fmt.Errorf("parser: frontmatter yaml: %w", err)
	}

	body := strings.TrimLeft(string(rest[idx+1+len(frontmatterDelim):]), "\n\r")
	return &fm, body, nil
}

// splitLinks cuts the trailing "## Links" section off the body and parses
// its items. The final heading is only treated as the section when every
// line under it is blank or a list item; a "## Links" heading carrying
// ordinary prose stays part of the content. Link creation times are not
// persisted per item; parsed links inherit the note's created timestamp.
func splitLinks(body, sourceID string, created time.Time) (string, []models.Link) {
	idx := strings.LastIndex(body, "\n"+linksHeading)
	if idx < 0 {
		if strings.HasPrefix(body, linksHeading) {
			idx = 0
		} else {
			return strings.TrimRight(body, "\n"), nil
		}
	}

	section := strings.TrimPrefix(body[idx:], "\n")
	if !isLinksSection(section) {
		return strings.TrimRight(body, "\n"), nil
	}

	content := strings.TrimRight(body[:idx], "\n")

	var links []models.Link
	for _, line := range strings.Split(section, "\n") {
		m := linkItemRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		linkType, err := models.ParseLinkType(m[1])
		if err != nil {
			continue
		}
		links = append(links, models.Link{
			SourceID:    sourceID,
			TargetID:    m[2],
			Type:        linkType,
			Description: strings.TrimSpace(m[3]),
			CreatedAt:   created,
		})
	}
	return content, links
}

// isLinksSection reports whether a candidate trailing block is the links
// section: its first line is exactly the heading and the rest are blank
// or "- " list items. Malformed items are tolerated here; they are
// skipped during item parsing.
func isLinksSection(section string) bool {
	lines := strings.Split(section, "\n")
	if strings.TrimRight(lines[0], "\r") != linksHeading {
		return false
	}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "- ") {
			return false
		}
	}
	return true
}

// stripTitleHeading removes the H1 heading Marshal inserts above the content.
func stripTitleHeading(content, title string) string {
	heading := "# " + title
	if content == heading {
		return ""
	}
	if strings.HasPrefix(content, heading+"\n") {
		return strings.TrimLeft(content[len(heading):], "\n")
	}
	return content
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	return time.Parse(timeLayout, s)
}
