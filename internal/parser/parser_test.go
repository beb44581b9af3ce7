package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/zettelhub/zettel/internal/models"
)

func sampleNote() *models.Note {
	created := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	return &models.Note{
		ID:        "20260828100000000",
		Title:     "Atomic notes",
		Content:   "One idea per note.\n\nKeep them short.",
		Type:      models.NotePermanent,
		Tags:      []models.Tag{{Name: "zettelkasten"}, {Name: "method"}},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
		Metadata:  map[string]any{"source": "workshop"},
		Links: []models.Link{
			{SourceID: "20260828100000000", TargetID: "20260828100001000", Type: models.LinkExtends, Description: "builds on this", CreatedAt: created},
			{SourceID: "20260828100000000", TargetID: "20260828100002000", Type: models.LinkReference, CreatedAt: created},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	want := sampleNote()
	data, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got.ID != want.ID || got.Title != want.Title || got.Type != want.Type {
		t.Errorf("identity mismatch: %+v", got)
	}
	if got.Content != want.Content {
		t.Errorf("content = %q, want %q", got.Content, want.Content)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
	}
	if len(got.Tags) != 2 || got.Tags[0].Name != "zettelkasten" {
		t.Errorf("tags = %v", got.Tags)
	}
	if len(got.Links) != 2 {
		t.Fatalf("links = %v", got.Links)
	}
	if got.Links[0].TargetID != "20260828100001000" || got.Links[0].Type != models.LinkExtends {
		t.Errorf("first link = %+v", got.Links[0])
	}
	if got.Links[0].Description != "builds on this" {
		t.Errorf("description = %q", got.Links[0].Description)
	}
	if got.Metadata["source"] != "workshop" {
		t.Errorf("metadata = %v", got.Metadata)
	}
}

func TestMarshal_Layout(t *testing.T) {
	data, err := Marshal(sampleNote())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)

	if !strings.HasPrefix(s, "---\n") {
		t.Error("file must open with frontmatter delimiter")
	}
	if !strings.Contains(s, "\n# Atomic notes\n") {
		t.Error("expected H1 title heading")
	}
	if !strings.Contains(s, "\n## Links\n") {
		t.Error("expected Links section")
	}
	if !strings.Contains(s, "- extends: 20260828100001000 builds on this\n") {
		t.Errorf("link item missing:\n%s", s)
	}
}

func TestParse_NoLinksSection(t *testing.T) {
	n := sampleNote()
	n.Links = nil
	data, _ := Marshal(n)
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got.Links) != 0 {
		t.Errorf("links = %v, want none", got.Links)
	}
	if got.Content != n.Content {
		t.Errorf("content = %q", got.Content)
	}
}

func TestParse_EmptyContent(t *testing.T) {
	n := sampleNote()
	n.Content = ""
	n.Links = nil
	data, _ := Marshal(n)
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Content != "" {
		t.Errorf("content = %q, want empty", got.Content)
	}
}

func TestParse_LinksHeadingInContbody(t *testing.T) {
	// A "## Links" heading inside the body text must not be confused
	// with the trailing section; only the last one is cut.
	n := sampleNote()
	n.Content = "Intro.\n\n## Links\n\nProse about links, not the section."
	data, _ := Marshal(n)
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got.Links) != 2 {
		t.Errorf("links = %d, want 2", len(got.Links))
	}
	if !strings.Contains(got.Content, "Prose about links") {
		t.Errorf("content lost body heading: %q", got.Content)
	}
}

func TestRoundTrip_LinksHeadingProse_NoLinks(t *testing.T) {
	// A link-less note whose body ends in a "## Links" heading with prose
	// under it must survive a write/read cycle intact.
	n := sampleNote()
	n.Links = nil
	n.Content = "Intro.\n\n## Links\n\nProse about links, not the section."
	data, err := Marshal(n)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Content != n.Content {
		t.Errorf("content = %q, want %q", got.Content, n.Content)
	}
	if len(got.Links) != 0 {
		t.Errorf("links = %v, want none", got.Links)
	}

	// And again through a second cycle, as an update would do.
	data, err = Marshal(got)
	if err != nil {
		t.Fatalf("Marshal again: %v", err)
	}
	got, err = Parse(data)
	if err != nil {
		t.Fatalf("Parse again: %v", err)
	}
	if got.Content != n.Content {
		t.Errorf("second cycle content = %q, want %q", got.Content, n.Content)
	}
}

func TestMarshal_EmptyLinksSection(t *testing.T) {
	n := sampleNote()
	n.Links = nil
	data, err := Marshal(n)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n## Links\n") {
		t.Errorf("link-less note must end with an empty Links section:\n%s", data)
	}
}

func TestParse_HandWrittenFileWithoutSection(t *testing.T) {
	// Files authored outside the system may omit the trailing section; a
	// prose "## Links" heading in them is content, not links.
	raw := "---\nid: \"1\"\ntitle: T\nnote_type: fleeting\n" +
		"created: 2026-01-01T00:00:00Z\nupdated: 2026-01-01T00:00:00Z\n---\n\n" +
		"# T\n\nBody.\n\n## Links\n\nNotes on linking practice.\n"
	got, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got.Links) != 0 {
		t.Errorf("links = %v, want none", got.Links)
	}
	if !strings.Contains(got.Content, "Notes on linking practice.") {
		t.Errorf("content lost prose after heading: %q", got.Content)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"no frontmatter":     "# Title\n\nBody\n",
		"unterminated":       "---\nid: x\n",
		"missing id":         "---\ntitle: T\nnote_type: fleeting\ncreated: 2026-01-01T00:00:00Z\nupdated: 2026-01-01T00:00:00Z\n---\n",
		"bad note type":      "---\nid: \"1\"\ntitle: T\nnote_type: diary\ncreated: 2026-01-01T00:00:00Z\nupdated: 2026-01-01T00:00:00Z\n---\n",
		"missing timestamps": "---\nid: \"1\"\ntitle: T\nnote_type: fleeting\n---\n",
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Errorf("%s: expected parse error", name)
		}
	}
}

func TestSplitLinks_IgnoresMalformedItems(t *testing.T) {
	body := "Body.\n\n## Links\n\n- extends: 123\n- nonsense line\n- badtype: 456\n"
	content, links := splitLinks(body, "src", time.Now())
	if content != "Body." {
		t.Errorf("content = %q", content)
	}
	if len(links) != 1 || links[0].Type != models.LinkExtends {
		t.Errorf("links = %v, want single extends", links)
	}
}
