package search

import (
	"fmt"
	"strings"

	"github.com/zettelhub/zettel/internal/apperr"
	"github.com/zettelhub/zettel/internal/index"
	"github.com/zettelhub/zettel/internal/models"
)

// LinkQuery describes one link search in a batch.
type LinkQuery struct {
	NoteID    string
	Direction string
}

// BatchSearchByText runs multiple text searches, one result set per query.
func (s *Service) BatchSearchByText(queries []string) models.BatchResult[[]Result, string] {
	results := make([]models.BatchItemResult[[]Result, string], 0, len(queries))
	for _, q := range queries {
		hits, err := s.SearchByText(q)
		if err != nil {
			results = append(results, models.BatchFail[[]Result](q, err))
			continue
		}
		results = append(results, models.BatchOK(q, hits))
	}
	return models.NewBatchResult(results)
}

// BatchSearchByTag runs multiple tag searches. Each item is an ANY-of tag
// set identified by the comma-joined tag names.
func (s *Service) BatchSearchByTag(tagQueries [][]string) models.BatchResult[[]*models.Note, string] {
	results := make([]models.BatchItemResult[[]*models.Note, string], 0, len(tagQueries))
	for _, tags := range tagQueries {
		itemID := strings.Join(tags, ",")
		notes, err := s.SearchByTag(tags)
		if err != nil {
			results = append(results, models.BatchFail[[]*models.Note](itemID, err))
			continue
		}
		results = append(results, models.BatchOK(itemID, notes))
	}
	return models.NewBatchResult(results)
}

// BatchSearchByLink runs multiple link traversals.
func (s *Service) BatchSearchByLink(queries []LinkQuery) models.BatchResult[[]*models.Note, string] {
	results := make([]models.BatchItemResult[[]*models.Note, string], 0, len(queries))
	for _, q := range queries {
		itemID := fmt.Sprintf("%s:%s", q.NoteID, q.Direction)
		notes, err := s.searchByLinkQuery(q)
		if err != nil {
			results = append(results, models.BatchFail[[]*models.Note](itemID, err))
			continue
		}
		results = append(results, models.BatchOK(itemID, notes))
	}
	return models.NewBatchResult(results)
}

func (s *Service) searchByLinkQuery(q LinkQuery) ([]*models.Note, error) {
	if q.NoteID == "" {
		return nil, apperr.Validation("note_id", "is required")
	}
	dir, err := index.ParseDirection(q.Direction)
	if err != nil {
		return nil, apperr.Validation("direction", err.Error())
	}
	return s.SearchByLink(q.NoteID, dir)
}

// BatchFindSimilar finds similar notes for multiple reference notes.
func (s *Service) BatchFindSimilar(noteIDs []string, threshold float64) models.BatchResult[[]Scored, string] {
	results := make([]models.BatchItemResult[[]Scored, string], 0, len(noteIDs))
	for _, id := range noteIDs {
		similar, err := s.FindSimilar(id, threshold)
		if err != nil {
			results = append(results, models.BatchFail[[]Scored](id, err))
			continue
		}
		results = append(results, models.BatchOK(id, similar))
	}
	return models.NewBatchResult(results)
}

// BatchSearchCombined runs multiple combined searches. Each item is
// identified by its non-empty criteria, or its position when all are empty.
func (s *Service) BatchSearchCombined(queries []CombinedQuery) models.BatchResult[[]Result, string] {
	results := make([]models.BatchItemResult[[]Result, string], 0, len(queries))
	for i, q := range queries {
		itemID := combinedQueryID(q, i)
		hits, err := s.SearchCombined(q)
		if err != nil {
			results = append(results, models.BatchFail[[]Result](itemID, err))
			continue
		}
		results = append(results, models.BatchOK(itemID, hits))
	}
	return models.NewBatchResult(results)
}

func combinedQueryID(q CombinedQuery, pos int) string {
	var parts []string
	if q.Text != "" {
		parts = append(parts, "text:"+q.Text)
	}
	if len(q.Tags) > 0 {
		parts = append(parts, "tags:"+strings.Join(q.Tags, ","))
	}
	if q.Type != "" {
		parts = append(parts, "type:"+q.Type)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("search_%d", pos)
	}
	return strings.Join(parts, " AND ")
}
