package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/venegas/diagcheck/internal/lint"
	"github.com/venegas/diagcheck/internal/store"
)

// DiagServerDeps holds the dependencies for creating a DiagServer.
type DiagServerDeps struct {
	Checker *lint.Checker
	Store   store.Store // nil disables the history and stats tools' data
	Logger  *slog.Logger
}

// DiagServer wraps an MCP server with diagram validation tool handlers.
type DiagServer struct {
	checker   *lint.Checker
	store     store.Store
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewDiagServer creates a new DiagServer with all 3 tools registered.
func NewDiagServer(deps DiagServerDeps) *DiagServer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	s := &DiagServer{
		checker: deps.Checker,
		store:   deps.Store,
		logger:  logger,
	}

	mcpSrv := server.NewMCPServer(
		"diagcheck",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Diagcheck validates Mermaid diagram syntax. Use diagram.validate to check a document before rendering it, diagram.history to inspect past verdicts, and diagram.stats for aggregate numbers."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or stdin closes.
func (s *DiagServer) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *DiagServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// tools returns the registered MCP tools as ServerTool entries.
func (s *DiagServer) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: validateTool(), Handler: s.handleValidate},
		{Tool: historyTool(), Handler: s.handleHistory},
		{Tool: statsTool(), Handler: s.handleStats},
	}
}

// --- Tool definitions ---

func validateTool() mcp.Tool {
	return mcp.NewTool("diagram.validate",
		mcp.WithDescription("Validate the syntax of a Mermaid diagram document"),
		mcp.WithString("code", mcp.Required(), mcp.Description("The raw diagram text to validate")),
	)
}

func historyTool() mcp.Tool {
	return mcp.NewTool("diagram.history",
		mcp.WithDescription("List past validation verdicts, newest first"),
		mcp.WithObject("filter", mcp.Description("Filter criteria (valid, type, limit, offset)")),
	)
}

func statsTool() mcp.Tool {
	return mcp.NewTool("diagram.stats",
		mcp.WithDescription("Aggregate validation statistics"),
	)
}
