package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zettelhub/zettel/internal/apperr"
	"github.com/zettelhub/zettel/internal/index"
	"github.com/zettelhub/zettel/internal/models"
	"github.com/zettelhub/zettel/internal/search"
	"github.com/zettelhub/zettel/internal/zettel"
)

// Handler holds API route handlers.
type Handler struct {
	zettel *zettel.Service
	search *search.Service
}

// NewHandler creates a new Handler.
func NewHandler(zs *zettel.Service, ss *search.Service) *Handler {
	return &Handler{zettel: zs, search: ss}
}

// writeServiceError maps a service error onto an HTTP status. Validation
// and not-found messages are surfaced; everything else is logged and
// reported generically.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case apperr.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes, optionally filtered by tag
//	@Tags			notes
//	@Produce		json
//	@Param			tag	query		string	false	"Filter by tag"
//	@Success		200	{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	var (
		notes []*models.Note
		err   error
	)
	if tag := r.URL.Query().Get("tag"); tag != "" {
		notes, err = h.zettel.GetNotesByTag(tag)
	} else {
		notes, err = h.zettel.GetAllNotes()
	}
	if err != nil {
		writeServiceError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	note, err := h.zettel.CreateNote(zettel.NoteInput{
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.NoteType,
		Tags:     req.Tags,
		Metadata: req.Metadata,
	})
	if err != nil {
		writeServiceError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetNote handles GET /api/notes/{id}. Falls back to a title lookup
// when no note carries the given id.
//
//	@Summary		Get a single note by id or exact title
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id or title"
//	@Success		200	{object}	models.Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.zettel.GetNote(id)
	if errors.Is(err, apperr.ErrNotFound) {
		note, err = h.zettel.GetNoteByTitle(id)
	}
	if err != nil {
		writeServiceError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary		Update fields of an existing note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Note id"
//	@Param			body	body		UpdateNoteRequest	true	"Fields to change"
//	@Success		200		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	note, err := h.zettel.UpdateNote(zettel.NoteUpdate{
		ID:       chi.URLParam(r, "id"),
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.NoteType,
		Tags:     req.Tags,
		Metadata: req.Metadata,
	})
	if err != nil {
		writeServiceError(w, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.zettel.DeleteNote(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportNote handles GET /api/notes/{id}/export, returning the note in
// its canonical Markdown form.
func (h *Handler) ExportNote(w http.ResponseWriter, r *http.Request) {
	md, err := h.zettel.ExportNote(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "export note", err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(md))
}

// LinkedNotes handles GET /api/notes/{id}/links.
//
//	@Summary		List notes linked to a note
//	@Tags			links
//	@Produce		json
//	@Param			id			path		string	true	"Note id"
//	@Param			direction	query		string	false	"outgoing, incoming or both"
//	@Success		200			{object}	NoteListResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/links [get]
func (h *Handler) LinkedNotes(w http.ResponseWriter, r *http.Request) {
	dir, err := index.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	notes, err := h.zettel.GetLinkedNotes(chi.URLParam(r, "id"), dir)
	if err != nil {
		writeServiceError(w, "linked notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// SimilarNotes handles GET /api/notes/{id}/similar.
func (h *Handler) SimilarNotes(w http.ResponseWriter, r *http.Request) {
	threshold := search.DefaultSimilarityThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid threshold")
			return
		}
		threshold = v
	}
	results, err := h.search.FindSimilar(chi.URLParam(r, "id"), threshold)
	if err != nil {
		writeServiceError(w, "similar notes", err)
		return
	}
	writeJSON(w, http.StatusOK, SimilarResponse{Results: results})
}

// CreateLink handles POST /api/links.
//
//	@Summary		Link two notes with a typed, optionally bidirectional link
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateLinkRequest	true	"Link to create"
//	@Success		201		{object}	LinkResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links [post]
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	linkType, reverseType, err := parseLinkTypes(req.LinkType, req.ReverseType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	source, target, err := h.zettel.CreateLink(
		req.SourceID, req.TargetID, linkType, req.Description, req.Bidirectional, reverseType)
	if err != nil {
		writeServiceError(w, "create link", err)
		return
	}
	writeJSON(w, http.StatusCreated, LinkResponse{Source: source, Target: target})
}

// RemoveLink handles DELETE /api/links.
//
//	@Summary		Remove link(s) between two notes
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RemoveLinkRequest	true	"Link to remove"
//	@Success		200		{object}	LinkResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links [delete]
func (h *Handler) RemoveLink(w http.ResponseWriter, r *http.Request) {
	var req RemoveLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// An empty type removes every link between the pair.
	var linkType models.LinkType
	if req.LinkType != "" {
		var err error
		if linkType, err = models.ParseLinkType(req.LinkType); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	source, target, err := h.zettel.RemoveLink(req.SourceID, req.TargetID, linkType, req.Bidirectional)
	if err != nil {
		writeServiceError(w, "remove link", err)
		return
	}
	writeJSON(w, http.StatusOK, LinkResponse{Source: source, Target: target})
}

// Search handles GET /api/search. All criteria are optional but at
// least one must be present.
//
//	@Summary		Combined search across text, tags, type and dates
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	false	"Text query"
//	@Param			tags	query		string	false	"Comma-separated tags (any match)"
//	@Param			type	query		string	false	"Note type filter"
//	@Param			start	query		string	false	"Created on or after (RFC 3339 or YYYY-MM-DD)"
//	@Param			end		query		string	false	"Created on or before"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := search.CombinedQuery{
		Text: q.Get("q"),
		Type: q.Get("type"),
	}
	if raw := q.Get("tags"); raw != "" {
		query.Tags = splitCommaList(raw)
	}
	var err error
	if query.StartDate, err = parseDateParam(q.Get("start")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date")
		return
	}
	if query.EndDate, err = parseDateParam(q.Get("end")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date")
		return
	}

	results, err := h.search.SearchCombined(query)
	if err != nil {
		writeServiceError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// ListTags handles GET /api/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.zettel.GetAllTags()
	if err != nil {
		writeServiceError(w, "list tags", err)
		return
	}
	writeJSON(w, http.StatusOK, TagListResponse{Tags: tags})
}

// CentralNotes handles GET /api/analytics/central.
func (h *Handler) CentralNotes(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = v
	}
	results, err := h.search.FindCentral(limit)
	if err != nil {
		writeServiceError(w, "central notes", err)
		return
	}
	writeJSON(w, http.StatusOK, CentralResponse{Results: results})
}

// OrphanNotes handles GET /api/analytics/orphans.
func (h *Handler) OrphanNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.search.FindOrphans()
	if err != nil {
		writeServiceError(w, "orphan notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// BrokenLinks handles GET /api/analytics/broken-links.
func (h *Handler) BrokenLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.search.FindBrokenLinks()
	if err != nil {
		writeServiceError(w, "broken links", err)
		return
	}
	writeJSON(w, http.StatusOK, BrokenLinksResponse{Links: links})
}

// RebuildIndex handles POST /api/index/rebuild.
func (h *Handler) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	n, err := h.zettel.RebuildIndex()
	if err != nil {
		writeServiceError(w, "rebuild index", err)
		return
	}
	writeJSON(w, http.StatusOK, RebuildResponse{Indexed: n})
}

func parseLinkTypes(rawType, rawReverse string) (models.LinkType, models.LinkType, error) {
	linkType := models.LinkReference
	if rawType != "" {
		var err error
		if linkType, err = models.ParseLinkType(rawType); err != nil {
			return "", "", err
		}
	}
	var reverseType models.LinkType
	if rawReverse != "" {
		var err error
		if reverseType, err = models.ParseLinkType(rawReverse); err != nil {
			return "", "", err
		}
	}
	return linkType, reverseType, nil
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("unrecognized date format")
}

func splitCommaList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
