package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) rebuildIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := s.zettel.RebuildIndex()
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("index rebuilt, %d notes indexed", n)), nil
}

func (s *Server) exportKnowledgeBase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := req.RequireString("export_dir")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	clean := true
	if v, err := req.RequireBool("clean_dir"); err == nil {
		clean = v
	}

	n, err := s.export.ToMarkdown(dir, clean)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("exported %d notes to %s", n, dir)), nil
}
