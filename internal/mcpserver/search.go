package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zettelhub/zettel/internal/search"
)

func (s *Server) registerSearchTools() {
	s.mcp.AddTool(mcp.NewTool("zk_search_notes",
		mcp.WithDescription("Search notes by text, tags, and note type. Results are sorted by relevance."),
		mcp.WithString("query", mcp.Description("Text to search for in titles and content")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags; notes matching ANY tag are included")),
		mcp.WithString("note_type", mcp.Description("Restrict to one note type")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("zk_find_similar_notes",
		mcp.WithDescription("Find notes similar to a note, scored by shared tags and links."),
		mcp.WithString("note_id", mcp.Required(), mcp.Description("Id of the reference note")),
		mcp.WithNumber("threshold", mcp.Description("Minimum similarity score 0..1 (default 0.5)")),
	), s.findSimilarNotes)

	s.mcp.AddTool(mcp.NewTool("zk_find_central_notes",
		mcp.WithDescription("List the most connected notes (incoming plus outgoing links)."),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 10)")),
	), s.findCentralNotes)

	s.mcp.AddTool(mcp.NewTool("zk_find_orphaned_notes",
		mcp.WithDescription("List notes with no incoming or outgoing links."),
	), s.findOrphanedNotes)

	s.mcp.AddTool(mcp.NewTool("zk_find_broken_links",
		mcp.WithDescription("List links whose target note no longer exists."),
	), s.findBrokenLinks)

	s.mcp.AddTool(mcp.NewTool("zk_list_notes_by_date",
		mcp.WithDescription("List notes created or updated within a date range, newest first."),
		mcp.WithString("start_date", mcp.Description("Inclusive lower bound, RFC 3339 or YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Description("Inclusive upper bound, RFC 3339 or YYYY-MM-DD")),
		mcp.WithBoolean("use_updated", mcp.Description("Filter on the updated timestamp instead of created")),
	), s.listNotesByDate)
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var q search.CombinedQuery
	if v, err := req.RequireString("query"); err == nil {
		q.Text = v
	}
	if v, err := req.RequireString("tags"); err == nil {
		q.Tags = splitTags(v)
	}
	if v, err := req.RequireString("note_type"); err == nil {
		q.Type = v
	}

	results, err := s.search.SearchCombined(q)
	if err != nil {
		return toolError(err), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matching notes"), nil
	}
	return jsonResult(results), nil
}

func (s *Server) findSimilarNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID, err := req.RequireString("note_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	threshold := search.DefaultSimilarityThreshold
	if v, err := req.RequireFloat("threshold"); err == nil {
		threshold = v
	}

	similar, err := s.search.FindSimilar(noteID, threshold)
	if err != nil {
		return toolError(err), nil
	}
	if len(similar) == 0 {
		return mcp.NewToolResultText("no similar notes found"), nil
	}
	return jsonResult(similar), nil
}

func (s *Server) findCentralNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 10
	if v, err := req.RequireInt("limit"); err == nil && v > 0 {
		limit = v
	}
	central, err := s.search.FindCentral(limit)
	if err != nil {
		return toolError(err), nil
	}
	if len(central) == 0 {
		return mcp.NewToolResultText("no connected notes found"), nil
	}
	return jsonResult(central), nil
}

func (s *Server) findOrphanedNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orphans, err := s.search.FindOrphans()
	if err != nil {
		return toolError(err), nil
	}
	if len(orphans) == 0 {
		return mcp.NewToolResultText("no orphaned notes"), nil
	}
	return jsonResult(orphans), nil
}

func (s *Server) findBrokenLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	broken, err := s.search.FindBrokenLinks()
	if err != nil {
		return toolError(err), nil
	}
	if len(broken) == 0 {
		return mcp.NewToolResultText("no broken links"), nil
	}
	return jsonResult(broken), nil
}

func (s *Server) listNotesByDate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var start, end *time.Time
	if v, err := req.RequireString("start_date"); err == nil && v != "" {
		t, perr := parseDate(v)
		if perr != nil {
			return mcp.NewToolResultError(perr.Error()), nil
		}
		start = &t
	}
	if v, err := req.RequireString("end_date"); err == nil && v != "" {
		t, perr := parseDate(v)
		if perr != nil {
			return mcp.NewToolResultError(perr.Error()), nil
		}
		end = &t
	}
	useUpdated := false
	if v, err := req.RequireBool("use_updated"); err == nil {
		useUpdated = v
	}

	notes, err := s.search.FindByDateRange(start, end, useUpdated)
	if err != nil {
		return toolError(err), nil
	}
	if len(notes) == 0 {
		return mcp.NewToolResultText("no notes in range"), nil
	}
	return jsonResult(notes), nil
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want RFC 3339 or YYYY-MM-DD)", s)
}
