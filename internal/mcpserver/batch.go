package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zettelhub/zettel/internal/zettel"
)

// Batch tools take their operation lists as JSON strings so that callers
// can pass arbitrarily many items through a single argument.

func (s *Server) registerBatchTools() {
	s.mcp.AddTool(mcp.NewTool("zk_batch_create_notes",
		mcp.WithDescription("Create multiple notes. Each item is attempted independently; "+
			"failures are reported per item and never abort the rest."),
		mcp.WithString("notes", mcp.Required(), mcp.Description(
			`JSON array of {"title", "content", "note_type"?, "tags"?: [..], "metadata"?: {..}}`)),
	), s.batchCreateNotes)

	s.mcp.AddTool(mcp.NewTool("zk_batch_update_notes",
		mcp.WithDescription("Update multiple notes with per-item partial failure."),
		mcp.WithString("updates", mcp.Required(), mcp.Description(
			`JSON array of {"note_id", "title"?, "content"?, "note_type"?, "tags"?: [..], "metadata"?: {..}}`)),
	), s.batchUpdateNotes)

	s.mcp.AddTool(mcp.NewTool("zk_batch_delete_notes",
		mcp.WithDescription("Delete multiple notes with per-item partial failure."),
		mcp.WithString("note_ids", mcp.Required(), mcp.Description(`JSON array of note id strings`)),
	), s.batchDeleteNotes)

	s.mcp.AddTool(mcp.NewTool("zk_batch_create_links",
		mcp.WithDescription("Create multiple links with per-item partial failure."),
		mcp.WithString("links", mcp.Required(), mcp.Description(
			`JSON array of {"source_id", "target_id", "link_type"?, "description"?, "bidirectional"?, "reverse_type"?}`)),
	), s.batchCreateLinks)

	s.mcp.AddTool(mcp.NewTool("zk_batch_search_by_text",
		mcp.WithDescription("Run multiple text searches with per-item partial failure."),
		mcp.WithString("queries", mcp.Required(), mcp.Description(`JSON array of query strings`)),
	), s.batchSearchByText)
}

func (s *Server) batchCreateNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("notes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var items []struct {
		Title    string         `json:"title"`
		Content  string         `json:"content"`
		NoteType string         `json:"note_type"`
		Tags     []string       `json:"tags"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid notes JSON: %v", err)), nil
	}

	inputs := make([]zettel.NoteInput, len(items))
	for i, it := range items {
		inputs[i] = zettel.NoteInput{
			Title:    it.Title,
			Content:  it.Content,
			Type:     it.NoteType,
			Tags:     it.Tags,
			Metadata: it.Metadata,
		}
	}
	return jsonResult(s.zettel.BatchCreateNotes(inputs)), nil
}

func (s *Server) batchUpdateNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("updates")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var items []struct {
		NoteID   string         `json:"note_id"`
		Title    *string        `json:"title"`
		Content  *string        `json:"content"`
		NoteType *string        `json:"note_type"`
		Tags     *[]string      `json:"tags"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid updates JSON: %v", err)), nil
	}

	updates := make([]zettel.NoteUpdate, len(items))
	for i, it := range items {
		updates[i] = zettel.NoteUpdate{
			ID:       it.NoteID,
			Title:    it.Title,
			Content:  it.Content,
			Type:     it.NoteType,
			Tags:     it.Tags,
			Metadata: it.Metadata,
		}
	}
	return jsonResult(s.zettel.BatchUpdateNotes(updates)), nil
}

func (s *Server) batchDeleteNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("note_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid note_ids JSON: %v", err)), nil
	}
	return jsonResult(s.zettel.BatchDeleteNotes(ids)), nil
}

func (s *Server) batchCreateLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("links")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var items []struct {
		SourceID      string `json:"source_id"`
		TargetID      string `json:"target_id"`
		LinkType      string `json:"link_type"`
		Description   string `json:"description"`
		Bidirectional bool   `json:"bidirectional"`
		ReverseType   string `json:"reverse_type"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid links JSON: %v", err)), nil
	}

	inputs := make([]zettel.LinkInput, len(items))
	for i, it := range items {
		inputs[i] = zettel.LinkInput{
			SourceID:      it.SourceID,
			TargetID:      it.TargetID,
			Type:          it.LinkType,
			Description:   it.Description,
			Bidirectional: it.Bidirectional,
			ReverseType:   it.ReverseType,
		}
	}
	return jsonResult(s.zettel.BatchCreateLinks(inputs)), nil
}

func (s *Server) batchSearchByText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("queries")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var queries []string
	if err := json.Unmarshal([]byte(raw), &queries); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid queries JSON: %v", err)), nil
	}
	return jsonResult(s.search.BatchSearchByText(queries)), nil
}
