package zettel

import (
	"fmt"

	"github.com/zettelhub/zettel/internal/apperr"
	"github.com/zettelhub/zettel/internal/models"
)

// Batch operations execute their items sequentially and independently:
// a failed item records an error at its position and never aborts the
// remaining items. Summary counts are derived from the per-item results.

// LinkInput describes one link to create in a batch. Type and ReverseType
// are caller-supplied strings parsed at this boundary.
type LinkInput struct {
	SourceID      string
	TargetID      string
	Type          string
	Description   string
	Bidirectional bool
	ReverseType   string
}

// LinkResult pairs the updated source note with the updated target note
// (nil when no reverse link was written).
type LinkResult struct {
	Source *models.Note `json:"source"`
	Target *models.Note `json:"target,omitempty"`
}

// TagOp describes tags to add to one note in a batch.
type TagOp struct {
	NoteID string
	Tags   []string
}

// BatchCreateNotes creates multiple notes. Failed items are identified by
// their input position since no id was assigned.
func (s *Service) BatchCreateNotes(inputs []NoteInput) models.BatchResult[*models.Note, string] {
	results := make([]models.BatchItemResult[*models.Note, string], 0, len(inputs))
	for i, in := range inputs {
		note, err := s.CreateNote(in)
		if err != nil {
			results = append(results, models.BatchFail[*models.Note](fmt.Sprintf("item_%d", i), err))
			continue
		}
		results = append(results, models.BatchOK(note.ID, note))
	}
	return models.NewBatchResult(results)
}

// BatchUpdateNotes applies multiple partial updates.
func (s *Service) BatchUpdateNotes(updates []NoteUpdate) models.BatchResult[*models.Note, string] {
	results := make([]models.BatchItemResult[*models.Note, string], 0, len(updates))
	for _, upd := range updates {
		itemID := upd.ID
		if itemID == "" {
			itemID = "unknown"
		}
		note, err := s.UpdateNote(upd)
		if err != nil {
			results = append(results, models.BatchFail[*models.Note](itemID, err))
			continue
		}
		results = append(results, models.BatchOK(note.ID, note))
	}
	return models.NewBatchResult(results)
}

// BatchDeleteNotes deletes multiple notes by id.
func (s *Service) BatchDeleteNotes(ids []string) models.BatchResult[*models.Note, string] {
	results := make([]models.BatchItemResult[*models.Note, string], 0, len(ids))
	for _, id := range ids {
		if err := s.DeleteNote(id); err != nil {
			results = append(results, models.BatchFail[*models.Note](id, err))
			continue
		}
		results = append(results, models.BatchOK[*models.Note](id, nil))
	}
	return models.NewBatchResult(results)
}

// BatchAddTags adds tags to multiple notes.
func (s *Service) BatchAddTags(ops []TagOp) models.BatchResult[*models.Note, string] {
	results := make([]models.BatchItemResult[*models.Note, string], 0, len(ops))
	for _, op := range ops {
		itemID := op.NoteID
		if itemID == "" {
			itemID = "unknown"
		}
		note, err := s.addTags(op)
		if err != nil {
			results = append(results, models.BatchFail[*models.Note](itemID, err))
			continue
		}
		results = append(results, models.BatchOK(note.ID, note))
	}
	return models.NewBatchResult(results)
}

func (s *Service) addTags(op TagOp) (*models.Note, error) {
	if op.NoteID == "" {
		return nil, apperr.Validation("note_id", "is required")
	}
	if len(op.Tags) == 0 {
		return nil, apperr.Validation("tags", "is required")
	}
	note, err := s.repo.Get(op.NoteID)
	if err != nil {
		return nil, err
	}
	for _, tag := range op.Tags {
		note.AddTag(tag)
	}
	return s.repo.Update(note)
}

// BatchCreateLinks creates multiple links. Items are identified by
// "<source>-<target>".
func (s *Service) BatchCreateLinks(inputs []LinkInput) models.BatchResult[*LinkResult, string] {
	results := make([]models.BatchItemResult[*LinkResult, string], 0, len(inputs))
	for _, in := range inputs {
		itemID := fmt.Sprintf("%s-%s", orUnknown(in.SourceID), orUnknown(in.TargetID))
		res, err := s.createLinkFromInput(in)
		if err != nil {
			results = append(results, models.BatchFail[*LinkResult](itemID, err))
			continue
		}
		results = append(results, models.BatchOK(itemID, res))
	}
	return models.NewBatchResult(results)
}

func (s *Service) createLinkFromInput(in LinkInput) (*LinkResult, error) {
	if in.SourceID == "" {
		return nil, apperr.Validation("source_id", "is required")
	}
	if in.TargetID == "" {
		return nil, apperr.Validation("target_id", "is required")
	}
	linkType := models.LinkReference
	if in.Type != "" {
		t, err := models.ParseLinkType(in.Type)
		if err != nil {
			return nil, apperr.Validation("link_type", err.Error())
		}
		linkType = t
	}
	var reverseType models.LinkType
	if in.ReverseType != "" {
		t, err := models.ParseLinkType(in.ReverseType)
		if err != nil {
			return nil, apperr.Validation("reverse_type", err.Error())
		}
		reverseType = t
	}
	source, target, err := s.CreateLink(in.SourceID, in.TargetID, linkType, in.Description, in.Bidirectional, reverseType)
	if err != nil {
		return nil, err
	}
	return &LinkResult{Source: source, Target: target}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
