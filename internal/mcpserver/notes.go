package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zettelhub/zettel/internal/apperr"
	"github.com/zettelhub/zettel/internal/zettel"
)

func (s *Server) registerNoteTools() {
	s.mcp.AddTool(mcp.NewTool("zk_create_note",
		mcp.WithDescription("Create a new note with a generated timestamp id."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note body in Markdown")),
		mcp.WithString("note_type", mcp.Description("One of: fleeting, literature, permanent, structure, hub (default permanent)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tag names")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("zk_get_note",
		mcp.WithDescription("Retrieve a note by id, falling back to exact title match."),
		mcp.WithString("identifier", mcp.Required(), mcp.Description("Note id or exact title")),
	), s.getNote)

	s.mcp.AddTool(mcp.NewTool("zk_update_note",
		mcp.WithDescription("Update fields of an existing note. Omitted fields are left unchanged."),
		mcp.WithString("note_id", mcp.Required(), mcp.Description("Id of the note to update")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New body")),
		mcp.WithString("note_type", mcp.Description("New note type")),
		mcp.WithString("tags", mcp.Description("Comma-separated tag names; replaces the whole tag set")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("zk_delete_note",
		mcp.WithDescription("Delete a note. Links on other notes that point at it become broken links."),
		mcp.WithString("note_id", mcp.Required(), mcp.Description("Id of the note to delete")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("zk_get_all_tags",
		mcp.WithDescription("List every tag in use across the Zettelkasten."),
	), s.getAllTags)

	s.mcp.AddTool(mcp.NewTool("zk_get_note_contract",
		mcp.WithDescription("Returns the canonical note format contract for stored note files."),
	), s.getNoteContract)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := zettel.NoteInput{Title: title, Content: content}
	if t, err := req.RequireString("note_type"); err == nil {
		in.Type = t
	}
	if tags, err := req.RequireString("tags"); err == nil {
		in.Tags = splitTags(tags)
	}

	note, err := s.zettel.CreateNote(in)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(note), nil
}

func (s *Server) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, err := req.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.zettel.GetNote(identifier)
	if err != nil && errors.Is(err, apperr.ErrNotFound) {
		note, err = s.zettel.GetNoteByTitle(identifier)
	}
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(note), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID, err := req.RequireString("note_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	upd := zettel.NoteUpdate{ID: noteID}
	if v, err := req.RequireString("title"); err == nil {
		upd.Title = &v
	}
	if v, err := req.RequireString("content"); err == nil {
		upd.Content = &v
	}
	if v, err := req.RequireString("note_type"); err == nil {
		upd.Type = &v
	}
	if v, err := req.RequireString("tags"); err == nil {
		tags := splitTags(v)
		upd.Tags = &tags
	}

	note, err := s.zettel.UpdateNote(upd)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(note), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID, err := req.RequireString("note_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.zettel.DeleteNote(noteID); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", noteID)), nil
}

func (s *Server) getAllTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.zettel.GetAllTags()
	if err != nil {
		return toolError(err), nil
	}
	if len(tags) == 0 {
		return mcp.NewToolResultText("no tags found"), nil
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) getNoteContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "zettel://note-format",
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}

// splitTags parses a comma-separated tag list, dropping empties.
func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// jsonResult marshals v as an indented JSON tool result.
func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

// toolError converts a service error into a tool error result. Validation
// and not-found errors are surfaced verbatim; anything else (storage,
// index) is reported generically to avoid leaking internals.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case apperr.IsValidation(err), errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrAlreadyExists):
		return mcp.NewToolResultError(err.Error())
	default:
		slog.Error("tool call failed", slog.String("error", err.Error()))
		return mcp.NewToolResultError("internal error: operation failed")
	}
}
