package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/planforge/planforge/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"plan_generate": {
		def:     generateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGenerate },
	},
	"plan_get": {
		def:     getToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGet },
	},
	"plan_recent": {
		def:     recentToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecent },
	},
	"plan_update_tasks": {
		def:     updateTasksToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUpdateTasks },
	},
	"plan_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
}

// AllToolNames returns a list of all tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates a new MCP server with planforge tools registered.
func NewServer(db *sql.DB, gen ops.PlanGenerator, logger *zap.Logger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"planforge",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, gen, logger)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, gen ops.PlanGenerator, logger *zap.Logger, version string) error {
	s := NewServer(db, gen, logger, version)
	return server.ServeStdio(s)
}
