package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/resumekit/internal/advisor"
	"github.com/ziadkadry99/resumekit/internal/resume"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes résumé tools to agents.
type Server struct {
	store   *resume.Store
	events  resume.Recorder
	advisor *advisor.Advisor
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. events may
// be nil.
func NewServer(store *resume.Store, events resume.Recorder, adv *advisor.Advisor) *Server {
	s := &Server{
		store:   store,
		events:  events,
		advisor: adv,
	}

	s.mcp = server.NewMCPServer(
		"resumekit",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(listResumesTool, s.handleListResumes)
	s.mcp.AddTool(getResumeTool, s.handleGetResume)
	s.mcp.AddTool(insertionPointTool, s.handleInsertionPoint)
	s.mcp.AddTool(moveSectionTool, s.handleMoveSection)
	s.mcp.AddTool(suggestTool, s.handleSuggest)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
