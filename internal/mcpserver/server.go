// Package mcpserver exposes the Zettelkasten operations as MCP
// (Model Context Protocol) tools over stdio transport.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zettelhub/zettel/internal/export"
	"github.com/zettelhub/zettel/internal/search"
	"github.com/zettelhub/zettel/internal/zettel"
)

// Server wraps the MCP server with the zk_* tools.
type Server struct {
	mcp    *server.MCPServer
	zettel *zettel.Service
	search *search.Service
	export *export.Service
}

// New creates an MCP server with all tools registered.
func New(zs *zettel.Service, ss *search.Service, es *export.Service) *Server {
	s := &Server{zettel: zs, search: ss, export: es}

	s.mcp = server.NewMCPServer(
		"Zettel",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.registerNoteTools()
	s.registerLinkTools()
	s.registerSearchTools()
	s.registerBatchTools()

	s.mcp.AddTool(mcp.NewTool("zk_rebuild_index",
		mcp.WithDescription("Rebuild the search index from the note files. "+
			"Use after editing note files outside of this server."),
	), s.rebuildIndex)

	s.mcp.AddTool(mcp.NewTool("zk_export_knowledge_base",
		mcp.WithDescription("Export all notes to a directory of cross-linked Markdown files grouped by note type."),
		mcp.WithString("export_dir", mcp.Required(), mcp.Description("Directory to export into")),
		mcp.WithBoolean("clean_dir", mcp.Description("Remove existing directory contents first (default true)")),
	), s.exportKnowledgeBase)

	// Resource: note format contract.
	s.mcp.AddResource(
		mcp.NewResource("zettel://note-format", "Note Format Contract",
			mcp.WithResourceDescription("Canonical Markdown note format used for all stored notes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}
