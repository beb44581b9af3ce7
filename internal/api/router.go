package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/zettelhub/zettel/internal/search"
	"github.com/zettelhub/zettel/internal/zettel"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(zs *zettel.Service, ss *search.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(zs, ss)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Get("/notes/{id}/export", h.ExportNote)
	r.Get("/notes/{id}/links", h.LinkedNotes)
	r.Get("/notes/{id}/similar", h.SimilarNotes)

	// Links.
	r.Post("/links", h.CreateLink)
	r.Delete("/links", h.RemoveLink)

	// Search and tags.
	r.Get("/search", h.Search)
	r.Get("/tags", h.ListTags)

	// Graph analytics.
	r.Get("/analytics/central", h.CentralNotes)
	r.Get("/analytics/orphans", h.OrphanNotes)
	r.Get("/analytics/broken-links", h.BrokenLinks)

	// Index maintenance.
	r.Post("/index/rebuild", h.RebuildIndex)

	return r
}
