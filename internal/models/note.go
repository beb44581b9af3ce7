// Package models defines the domain types for the Zettelkasten.
package models

import (
	"fmt"
	"strings"
	"time"
)

// NoteType classifies a note's role in the Zettelkasten.
type NoteType string

const (
	NoteFleeting   NoteType = "fleeting"
	NoteLiterature NoteType = "literature"
	NotePermanent  NoteType = "permanent"
	NoteStructure  NoteType = "structure"
	NoteHub        NoteType = "hub"
)

var noteTypes = map[string]NoteType{
	string(NoteFleeting):   NoteFleeting,
	string(NoteLiterature): NoteLiterature,
	string(NotePermanent):  NotePermanent,
	string(NoteStructure):  NoteStructure,
	string(NoteHub):        NoteHub,
}

// ParseNoteType maps a caller-supplied string to a NoteType.
func ParseNoteType(s string) (NoteType, error) {
	if t, ok := noteTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown note type %q (valid: fleeting, literature, permanent, structure, hub)", s)
}

// Tag is an immutable value object identified by its name.
type Tag struct {
	Name string `json:"name"`
}

func (t Tag) String() string { return t.Name }

// Note is the atomic unit of knowledge: a titled body of text with tags,
// typed outgoing links, timestamps, and free-form metadata.
type Note struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Type      NoteType       `json:"note_type"`
	Tags      []Tag          `json:"tags,omitempty"`
	Links     []Link         `json:"links,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Validate checks the note's structural invariants.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	return nil
}

// HasTag reports whether the note carries a tag with the given name.
func (n *Note) HasTag(name string) bool {
	for _, t := range n.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// AddTag appends a tag unless one with the same name already exists.
func (n *Note) AddTag(name string) {
	if n.HasTag(name) {
		return
	}
	n.Tags = append(n.Tags, Tag{Name: name})
	n.UpdatedAt = time.Now()
}

// RemoveTag deletes the tag with the given name, if present.
func (n *Note) RemoveTag(name string) {
	kept := n.Tags[:0]
	for _, t := range n.Tags {
		if t.Name != name {
			kept = append(kept, t)
		}
	}
	n.Tags = kept
	n.UpdatedAt = time.Now()
}

// FindLink returns the outgoing link matching (targetID, linkType), if any.
func (n *Note) FindLink(targetID string, linkType LinkType) *Link {
	for i := range n.Links {
		if n.Links[i].TargetID == targetID && n.Links[i].Type == linkType {
			return &n.Links[i]
		}
	}
	return nil
}

// AddLink appends an outgoing link. A link with the same (target, type)
// already present makes this a no-op.
func (n *Note) AddLink(targetID string, linkType LinkType, description string) {
	if n.FindLink(targetID, linkType) != nil {
		return
	}
	n.Links = append(n.Links, Link{
		SourceID:    n.ID,
		TargetID:    targetID,
		Type:        linkType,
		Description: description,
		CreatedAt:   time.Now(),
	})
	n.UpdatedAt = time.Now()
}

// RemoveLink deletes outgoing links to targetID. When linkType is non-empty
// only links of that type are removed.
func (n *Note) RemoveLink(targetID string, linkType LinkType) {
	kept := n.Links[:0]
	for _, l := range n.Links {
		if l.TargetID == targetID && (linkType == "" || l.Type == linkType) {
			continue
		}
		kept = append(kept, l)
	}
	n.Links = kept
	n.UpdatedAt = time.Now()
}

// LinkedIDs returns the set of note IDs this note links to.
func (n *Note) LinkedIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(n.Links))
	for _, l := range n.Links {
		out[l.TargetID] = struct{}{}
	}
	return out
}

// TagNames returns the note's tag names in order.
func (n *Note) TagNames() []string {
	out := make([]string, len(n.Tags))
	for i, t := range n.Tags {
		out[i] = t.Name
	}
	return out
}
