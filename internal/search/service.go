// Package search provides read-only discovery over the Zettelkasten:
// scored text search, tag and date filters, and link-graph analytics
// (similarity, centrality, orphan and broken-link detection).
package search

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zettelhub/zettel/internal/apperr"
	"github.com/zettelhub/zettel/internal/index"
	"github.com/zettelhub/zettel/internal/models"
	"github.com/zettelhub/zettel/internal/zettel"
)

// Score weights for text search. An exact substring match in the title
// outweighs one in the content; individually matched terms add less.
const (
	titleMatchScore   = 2.0
	contentMatchScore = 1.0
	titleTermScore    = 0.5
	contentTermScore  = 0.2
	snippetRadius     = 40
)

// DefaultSimilarityThreshold filters weak similarity scores.
const DefaultSimilarityThreshold = 0.5

// Result is a search hit with its relevance score and matched context.
type Result struct {
	Note           *models.Note `json:"note"`
	Score          float64      `json:"score"`
	MatchedTerms   []string     `json:"matched_terms,omitempty"`
	MatchedContext string       `json:"matched_context,omitempty"`
}

// Scored pairs a note with its similarity to a reference note.
type Scored struct {
	Note       *models.Note `json:"note"`
	Similarity float64      `json:"similarity"`
}

// Connection pairs a note with its total link count.
type Connection struct {
	Note  *models.Note `json:"note"`
	Count int          `json:"connections"`
}

// CombinedQuery bundles the criteria of a combined search. Zero-valued
// fields are not applied.
type CombinedQuery struct {
	Text      string
	Tags      []string
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
}

// Service performs searches against the repository via the zettel service.
type Service struct {
	zettel *zettel.Service
}

// NewService creates a search Service.
func NewService(zs *zettel.Service) *Service {
	return &Service{zettel: zs}
}

// SearchByText scores every note against the query. Case-insensitive; a
// note is included only if its score is positive. Ties keep discovery
// order.
func (s *Service) SearchByText(query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	notes, err := s.zettel.GetAllNotes()
	if err != nil {
		return nil, err
	}
	results := scoreNotes(notes, query)
	sortByScore(results)
	return results, nil
}

// SearchByTag returns notes carrying ANY of the given tags, deduplicated,
// in discovery order.
func (s *Service) SearchByTag(tags []string) ([]*models.Note, error) {
	seen := make(map[string]struct{})
	var out []*models.Note
	for _, tag := range tags {
		notes, err := s.zettel.GetNotesByTag(tag)
		if err != nil {
			return nil, err
		}
		for _, n := range notes {
			if _, dup := seen[n.ID]; dup {
				continue
			}
			seen[n.ID] = struct{}{}
			out = append(out, n)
		}
	}
	return out, nil
}

// SearchByLink returns notes linked to/from the given note.
func (s *Service) SearchByLink(noteID string, dir index.Direction) ([]*models.Note, error) {
	return s.zettel.GetLinkedNotes(noteID, dir)
}

// SearchCombined filters by type, tag membership, and date range, then
// applies text scoring to the filtered subset. Without a text query every
// filtered note gets a neutral score of 1.0.
func (s *Service) SearchCombined(q CombinedQuery) ([]Result, error) {
	var noteType models.NoteType
	if q.Type != "" {
		t, err := models.ParseNoteType(q.Type)
		if err != nil {
			return nil, apperr.Validation("note_type", err.Error())
		}
		noteType = t
	}

	all, err := s.zettel.GetAllNotes()
	if err != nil {
		return nil, err
	}

	var filtered []*models.Note
	for _, n := range all {
		if noteType != "" && n.Type != noteType {
			continue
		}
		if q.StartDate != nil && n.CreatedAt.Before(*q.StartDate) {
			continue
		}
		if q.EndDate != nil && n.CreatedAt.After(*q.EndDate) {
			continue
		}
		if len(q.Tags) > 0 && !hasAnyTag(n, q.Tags) {
			continue
		}
		filtered = append(filtered, n)
	}

	var results []Result
	if q.Text != "" {
		results = scoreNotes(filtered, q.Text)
	} else {
		results = make([]Result, len(filtered))
		for i, n := range filtered {
			results[i] = Result{Note: n, Score: 1.0}
		}
	}
	sortByScore(results)
	return results, nil
}

// FindByDateRange returns notes created (or updated, when useUpdated is
// set) within the range, newest first. Either bound may be nil.
func (s *Service) FindByDateRange(start, end *time.Time, useUpdated bool) ([]*models.Note, error) {
	all, err := s.zettel.GetAllNotes()
	if err != nil {
		return nil, err
	}
	var out []*models.Note
	for _, n := range all {
		date := n.CreatedAt
		if useUpdated {
			date = n.UpdatedAt
		}
		if start != nil && date.Before(*start) {
			continue
		}
		if end != nil && !date.Before(end.Add(time.Second)) {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].CreatedAt, out[j].CreatedAt
		if useUpdated {
			di, dj = out[i].UpdatedAt, out[j].UpdatedAt
		}
		return di.After(dj)
	})
	return out, nil
}

// FindSimilar scores every other note against the reference note by shared
// tags, shared outgoing links, and direct connections in either direction.
// Notes scoring at or above threshold are returned, most similar first.
func (s *Service) FindSimilar(noteID string, threshold float64) ([]Scored, error) {
	note, err := s.zettel.GetNote(noteID)
	if err != nil {
		return nil, err
	}
	all, err := s.zettel.GetAllNotes()
	if err != nil {
		return nil, err
	}
	incoming, err := s.zettel.GetLinkedNotes(noteID, index.Incoming)
	if err != nil {
		return nil, err
	}

	noteTags := tagSet(note)
	noteLinks := note.LinkedIDs()
	linksToMe := make(map[string]struct{}, len(incoming))
	for _, n := range incoming {
		linksToMe[n.ID] = struct{}{}
	}

	var out []Scored
	for _, other := range all {
		if other.ID == noteID {
			continue
		}
		sim := similarity(noteTags, noteLinks, linksToMe, other)
		if sim >= threshold {
			out = append(out, Scored{Note: other, Similarity: sim})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out, nil
}

// FindCentral returns the limit most connected notes (incoming plus
// outgoing), computed in one aggregate pass. Unconnected notes are
// excluded.
func (s *Service) FindCentral(limit int) ([]Connection, error) {
	if limit <= 0 {
		limit = 10
	}
	counts, err := s.zettel.Repository().CountConnections()
	if err != nil {
		return nil, err
	}

	out := make([]Connection, 0, len(counts))
	for id, count := range counts {
		note, err := s.zettel.GetNote(id)
		if err != nil {
			continue
		}
		out = append(out, Connection{Note: note, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Note.ID < out[j].Note.ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FindOrphans returns notes with no links in either direction.
func (s *Service) FindOrphans() ([]*models.Note, error) {
	return s.zettel.Repository().Orphans()
}

// FindBrokenLinks returns links whose target id does not resolve to an
// existing note.
func (s *Service) FindBrokenLinks() ([]models.Link, error) {
	return s.zettel.Repository().BrokenLinks()
}

// similarity implements the weighted overlap formula: 40% shared tags,
// 20% shared outgoing links, 20% each for a direct link in either
// direction, normalized against the maximum possible overlap.
func similarity(noteTags, noteLinks, linksToMe map[string]struct{}, other *models.Note) float64 {
	otherTags := tagSet(other)
	otherLinks := other.LinkedIDs()

	tagOverlap := float64(intersectCount(noteTags, otherTags))
	linkOverlap := float64(intersectCount(noteLinks, otherLinks))

	var incomingOverlap, outgoingOverlap float64
	if _, ok := linksToMe[other.ID]; ok {
		incomingOverlap = 1
	}
	if _, ok := noteLinks[other.ID]; ok {
		outgoingOverlap = 1
	}

	totalPossible := float64(max(len(noteTags), len(otherTags)))*0.4 +
		float64(max(len(noteLinks), len(otherLinks)))*0.2 +
		0.2 + 0.2
	if totalPossible == 0 {
		return 0
	}
	return (tagOverlap*0.4 + linkOverlap*0.2 + incomingOverlap*0.2 + outgoingOverlap*0.2) / totalPossible
}

// scoreNotes applies the text-scoring pass to notes, keeping only positive
// scores, in input order.
func scoreNotes(notes []*models.Note, query string) []Result {
	query = strings.ToLower(query)
	terms := strings.Fields(query)

	var results []Result
	for _, n := range notes {
		score := 0.0
		var matched []string
		context := ""

		titleLower := strings.ToLower(n.Title)
		if strings.Contains(titleLower, query) {
			score += titleMatchScore
			context = "Title: " + n.Title
		}
		for _, term := range terms {
			if strings.Contains(titleLower, term) {
				score += titleTermScore
				matched = appendUnique(matched, term)
			}
		}

		contentLower := strings.ToLower(n.Content)
		if idx := strings.Index(contentLower, query); idx >= 0 {
			score += contentMatchScore
			context = fmt.Sprintf("Content: ...%s...", snippet(n.Content, idx, len(query)))
		}
		for _, term := range terms {
			if strings.Contains(contentLower, term) {
				score += contentTermScore
				matched = appendUnique(matched, term)
			}
		}

		if score > 0 {
			results = append(results, Result{
				Note:           n,
				Score:          score,
				MatchedTerms:   matched,
				MatchedContext: context,
			})
		}
	}
	return results
}

// snippet extracts the context window around the first content match.
// The window edges are widened to rune boundaries so the result is
// always valid UTF-8.
func snippet(content string, idx, matchLen int) string {
	start := idx - snippetRadius
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(content[start]) {
		start--
	}
	end := idx + matchLen + snippetRadius
	if end > len(content) {
		end = len(content)
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}
	return content[start:end]
}

func sortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
}

func hasAnyTag(n *models.Note, tags []string) bool {
	for _, t := range tags {
		if n.HasTag(t) {
			return true
		}
	}
	return false
}

func tagSet(n *models.Note) map[string]struct{} {
	out := make(map[string]struct{}, len(n.Tags))
	for _, t := range n.Tags {
		out[t.Name] = struct{}{}
	}
	return out
}

func intersectCount(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func appendUnique(terms []string, term string) []string {
	for _, t := range terms {
		if t == term {
			return terms
		}
	}
	return append(terms, term)
}
