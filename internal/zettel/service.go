// Package zettel implements the domain operations of the Zettelkasten:
// note CRUD, tag management, and the bidirectional link protocol.
package zettel

import (
	"fmt"
	"time"

	"github.com/zettelhub/zettel/internal/apperr"
	"github.com/zettelhub/zettel/internal/ident"
	"github.com/zettelhub/zettel/internal/index"
	"github.com/zettelhub/zettel/internal/models"
	"github.com/zettelhub/zettel/internal/parser"
	"github.com/zettelhub/zettel/internal/repository"
)

// Service manages Zettelkasten notes on top of the Repository.
type Service struct {
	repo *repository.Repository
	ids  *ident.Generator
}

// NewService creates a Service with its own id generator.
func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo, ids: ident.New()}
}

// NewServiceWithGenerator allows tests to inject a deterministic generator.
func NewServiceWithGenerator(repo *repository.Repository, ids *ident.Generator) *Service {
	return &Service{repo: repo, ids: ids}
}

// NoteInput describes a note to create. Type is the caller-supplied note
// type string; empty means permanent.
type NoteInput struct {
	Title    string
	Content  string
	Type     string
	Tags     []string
	Metadata map[string]any
}

// NoteUpdate describes a partial update. Nil fields are left unchanged;
// non-nil Tags replaces the whole tag set.
type NoteUpdate struct {
	ID       string
	Title    *string
	Content  *string
	Type     *string
	Tags     *[]string
	Metadata map[string]any
}

// CreateNote validates the input, assigns a generated id, and persists the
// note to both stores.
func (s *Service) CreateNote(in NoteInput) (*models.Note, error) {
	if in.Title == "" {
		return nil, apperr.Validation("title", "is required")
	}
	if in.Content == "" {
		return nil, apperr.Validation("content", "is required")
	}
	noteType := models.NotePermanent
	if in.Type != "" {
		t, err := models.ParseNoteType(in.Type)
		if err != nil {
			return nil, apperr.Validation("note_type", err.Error())
		}
		noteType = t
	}

	now := time.Now()
	note := &models.Note{
		ID:        s.ids.NextID(),
		Title:     in.Title,
		Content:   in.Content,
		Type:      noteType,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  in.Metadata,
	}
	for _, tag := range in.Tags {
		note.AddTag(tag)
	}
	return s.repo.Create(note)
}

// GetNote retrieves a note by id.
func (s *Service) GetNote(id string) (*models.Note, error) {
	return s.repo.Get(id)
}

// GetNoteByTitle retrieves a note by exact title.
func (s *Service) GetNoteByTitle(title string) (*models.Note, error) {
	return s.repo.GetByTitle(title)
}

// GetAllNotes returns every note ordered by id.
func (s *Service) GetAllNotes() ([]*models.Note, error) {
	return s.repo.GetAll()
}

// UpdateNote applies a partial update to an existing note.
func (s *Service) UpdateNote(upd NoteUpdate) (*models.Note, error) {
	if upd.ID == "" {
		return nil, apperr.Validation("note_id", "is required")
	}
	note, err := s.repo.Get(upd.ID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		note.Title = *upd.Title
	}
	if upd.Content != nil {
		note.Content = *upd.Content
	}
	if upd.Type != nil {
		t, err := models.ParseNoteType(*upd.Type)
		if err != nil {
			return nil, apperr.Validation("note_type", err.Error())
		}
		note.Type = t
	}
	if upd.Tags != nil {
		note.Tags = nil
		for _, tag := range *upd.Tags {
			note.AddTag(tag)
		}
	}
	if upd.Metadata != nil {
		note.Metadata = upd.Metadata
	}
	note.UpdatedAt = time.Now()

	return s.repo.Update(note)
}

// DeleteNote removes a note from both stores.
func (s *Service) DeleteNote(id string) error {
	return s.repo.Delete(id)
}

// GetNotesByTag returns notes carrying the given tag.
func (s *Service) GetNotesByTag(tag string) ([]*models.Note, error) {
	return s.repo.FindByTag(tag)
}

// AddTag adds a tag to a note and persists it.
func (s *Service) AddTag(noteID, tag string) (*models.Note, error) {
	note, err := s.repo.Get(noteID)
	if err != nil {
		return nil, err
	}
	note.AddTag(tag)
	return s.repo.Update(note)
}

// RemoveTag removes a tag from a note and persists it.
func (s *Service) RemoveTag(noteID, tag string) (*models.Note, error) {
	note, err := s.repo.Get(noteID)
	if err != nil {
		return nil, err
	}
	note.RemoveTag(tag)
	return s.repo.Update(note)
}

// GetAllTags returns every distinct tag in the system.
func (s *Service) GetAllTags() ([]models.Tag, error) {
	return s.repo.AllTags()
}

// GetLinkedNotes returns notes linked to/from a note.
func (s *Service) GetLinkedNotes(noteID string, dir index.Direction) ([]*models.Note, error) {
	return s.repo.FindLinked(noteID, dir)
}

// CreateLink adds a typed link from source to target. When bidirectional,
// a reverse link is added to the target using reverseType if given, else
// the semantic inverse of linkType. The returned target is nil when no
// reverse link was written (not requested, or it already existed).
func (s *Service) CreateLink(sourceID, targetID string, linkType models.LinkType, description string, bidirectional bool, reverseType models.LinkType) (*models.Note, *models.Note, error) {
	source, err := s.repo.Get(sourceID)
	if err != nil {
		return nil, nil, fmt.Errorf("source %w", err)
	}
	target, err := s.repo.Get(targetID)
	if err != nil {
		return nil, nil, fmt.Errorf("target %w", err)
	}

	if source.FindLink(targetID, linkType) == nil {
		source.AddLink(targetID, linkType, description)
		if source, err = s.repo.Update(source); err != nil {
			return nil, nil, err
		}
	} else if !bidirectional {
		return source, nil, nil
	}

	if !bidirectional {
		return source, nil, nil
	}

	if reverseType == "" {
		reverseType = linkType.Inverse()
	}
	if target.FindLink(sourceID, reverseType) != nil {
		// Reverse link already exists; leave the target untouched.
		return source, nil, nil
	}
	target.AddLink(sourceID, reverseType, description)
	if target, err = s.repo.Update(target); err != nil {
		return source, nil, err
	}
	return source, target, nil
}

// RemoveLink removes link(s) from source to target, optionally filtered by
// type (empty type removes all). When bidirectional, matching links from
// target back to source are removed as well.
func (s *Service) RemoveLink(sourceID, targetID string, linkType models.LinkType, bidirectional bool) (*models.Note, *models.Note, error) {
	source, err := s.repo.Get(sourceID)
	if err != nil {
		return nil, nil, fmt.Errorf("source %w", err)
	}
	source.RemoveLink(targetID, linkType)
	if source, err = s.repo.Update(source); err != nil {
		return nil, nil, err
	}

	var reverse *models.Note
	if bidirectional {
		target, err := s.repo.Get(targetID)
		if err == nil {
			target.RemoveLink(sourceID, linkType)
			if reverse, err = s.repo.Update(target); err != nil {
				return source, nil, err
			}
		}
	}
	return source, reverse, nil
}

// RebuildIndex regenerates the index from the note files and returns
// the number of notes indexed.
func (s *Service) RebuildIndex() (int, error) {
	return s.repo.RebuildIndex()
}

// ExportNote renders a single note to its canonical Markdown form.
func (s *Service) ExportNote(id string) (string, error) {
	note, err := s.repo.Get(id)
	if err != nil {
		return "", err
	}
	data, err := parser.Marshal(note)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Repository exposes the underlying repository for read-only consumers.
func (s *Service) Repository() *repository.Repository {
	return s.repo
}
