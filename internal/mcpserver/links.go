package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zettelhub/zettel/internal/index"
	"github.com/zettelhub/zettel/internal/models"
	"github.com/zettelhub/zettel/internal/zettel"
)

func (s *Server) registerLinkTools() {
	s.mcp.AddTool(mcp.NewTool("zk_create_link",
		mcp.WithDescription("Create a typed link between two notes. With bidirectional set, "+
			"a semantically inverse link (e.g. extends/extended_by) is added to the target."),
		mcp.WithString("source_id", mcp.Required(), mcp.Description("Id of the source note")),
		mcp.WithString("target_id", mcp.Required(), mcp.Description("Id of the target note")),
		mcp.WithString("link_type", mcp.Description("Link type (default reference)")),
		mcp.WithString("description", mcp.Description("Optional link description")),
		mcp.WithBoolean("bidirectional", mcp.Description("Also create the inverse link on the target")),
		mcp.WithString("reverse_type", mcp.Description("Explicit type for the reverse link (default: semantic inverse)")),
	), s.createLink)

	s.mcp.AddTool(mcp.NewTool("zk_remove_link",
		mcp.WithDescription("Remove link(s) from source to target, optionally limited to one type."),
		mcp.WithString("source_id", mcp.Required(), mcp.Description("Id of the source note")),
		mcp.WithString("target_id", mcp.Required(), mcp.Description("Id of the target note")),
		mcp.WithString("link_type", mcp.Description("Only remove links of this type")),
		mcp.WithBoolean("bidirectional", mcp.Description("Also remove matching links from target back to source")),
	), s.removeLink)

	s.mcp.AddTool(mcp.NewTool("zk_get_linked_notes",
		mcp.WithDescription("List notes linked to/from a note."),
		mcp.WithString("note_id", mcp.Required(), mcp.Description("Id of the note")),
		mcp.WithString("direction", mcp.Description("outgoing, incoming, or both (default both)")),
	), s.getLinkedNotes)
}

func (s *Server) createLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceID, err := req.RequireString("source_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetID, err := req.RequireString("target_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := zettel.LinkInput{SourceID: sourceID, TargetID: targetID}
	if v, err := req.RequireString("link_type"); err == nil {
		in.Type = v
	}
	if v, err := req.RequireString("description"); err == nil {
		in.Description = v
	}
	if v, err := req.RequireBool("bidirectional"); err == nil {
		in.Bidirectional = v
	}
	if v, err := req.RequireString("reverse_type"); err == nil {
		in.ReverseType = v
	}

	batch := s.zettel.BatchCreateLinks([]zettel.LinkInput{in})
	item := batch.Results[0]
	if !item.Success {
		return mcp.NewToolResultError(item.Err), nil
	}
	return jsonResult(item.Result), nil
}

func (s *Server) removeLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceID, err := req.RequireString("source_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetID, err := req.RequireString("target_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var linkType models.LinkType
	if v, err := req.RequireString("link_type"); err == nil && v != "" {
		t, perr := models.ParseLinkType(v)
		if perr != nil {
			return mcp.NewToolResultError(perr.Error()), nil
		}
		linkType = t
	}
	bidirectional := false
	if v, err := req.RequireBool("bidirectional"); err == nil {
		bidirectional = v
	}

	source, target, err := s.zettel.RemoveLink(sourceID, targetID, linkType, bidirectional)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(&zettel.LinkResult{Source: source, Target: target}), nil
}

func (s *Server) getLinkedNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID, err := req.RequireString("note_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir := index.Both
	if v, err := req.RequireString("direction"); err == nil {
		d, perr := index.ParseDirection(v)
		if perr != nil {
			return mcp.NewToolResultError(perr.Error()), nil
		}
		dir = d
	}

	notes, err := s.zettel.GetLinkedNotes(noteID, dir)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(notes), nil
}
