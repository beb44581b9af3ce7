package api

import (
	"github.com/zettelhub/zettel/internal/models"
	"github.com/zettelhub/zettel/internal/search"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title    string         `json:"title" example:"Atomic notes" validate:"required"`
	Content  string         `json:"content" example:"One idea per note." validate:"required"`
	NoteType string         `json:"note_type,omitempty" example:"permanent"`
	Tags     []string       `json:"tags,omitempty" example:"zettelkasten,method"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// UpdateNoteRequest is the request body for updating a note. Absent
// fields leave the stored value untouched.
type UpdateNoteRequest struct {
	Title    *string        `json:"title,omitempty"`
	Content  *string        `json:"content,omitempty"`
	NoteType *string        `json:"note_type,omitempty"`
	Tags     *[]string      `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// CreateLinkRequest is the request body for linking two notes.
type CreateLinkRequest struct {
	SourceID      string `json:"source_id" validate:"required"`
	TargetID      string `json:"target_id" validate:"required"`
	LinkType      string `json:"link_type,omitempty" example:"extends"`
	Description   string `json:"description,omitempty"`
	Bidirectional bool   `json:"bidirectional,omitempty"`
	ReverseType   string `json:"reverse_type,omitempty"`
}

// RemoveLinkRequest is the request body for removing a link.
type RemoveLinkRequest struct {
	SourceID      string `json:"source_id" validate:"required"`
	TargetID      string `json:"target_id" validate:"required"`
	LinkType      string `json:"link_type,omitempty"`
	Bidirectional bool   `json:"bidirectional,omitempty"`
}

// LinkResponse carries both sides of a link mutation. Target is null
// when no reverse link was written.
type LinkResponse struct {
	Source *models.Note `json:"source"`
	Target *models.Note `json:"target,omitempty"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []*models.Note `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps scored search results.
type SearchResponse struct {
	Results []search.Result `json:"results" validate:"required"`
}

// SimilarResponse wraps similarity results.
type SimilarResponse struct {
	Results []search.Scored `json:"results" validate:"required"`
}

// CentralResponse wraps connection-count rankings.
type CentralResponse struct {
	Results []search.Connection `json:"results" validate:"required"`
}

// BrokenLinksResponse wraps dangling link reports.
type BrokenLinksResponse struct {
	Links []models.Link `json:"links" validate:"required"`
}

// TagListResponse wraps the distinct tag listing.
type TagListResponse struct {
	Tags []models.Tag `json:"tags" validate:"required"`
}

// RebuildResponse reports an index rebuild.
type RebuildResponse struct {
	Indexed int `json:"indexed" example:"42" validate:"required"`
}
