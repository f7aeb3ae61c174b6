package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/codelensd/engine/internal/engine"
)

const (
	// ServerName is the MCP server name advertised during initialize.
	ServerName = "codelensd"
	// ServerVersion is the current server version.
	ServerVersion = "1.0.0"
	// DefaultCacheDir is the default location for per-project index caches.
	DefaultCacheDir = "~/.codelensd/cache"
)

// Server wraps the MCP transport with the retrieval engine it dispatches to.
type Server struct {
	mcp *server.MCPServer
	eng *engine.Engine
}

// NewServer creates a new MCP server instance backed by a single engine.
// cfg.CacheDir is expanded if empty or left at its default placeholder.
func NewServer(cfg engine.Config) (*Server, error) {
	if cfg.CacheDir == "" || cfg.CacheDir == DefaultCacheDir {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.CacheDir = filepath.Join(home, ".codelensd", "cache")
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	s := &Server{
		mcp: server.NewMCPServer(ServerName, ServerVersion),
		eng: eng,
	}
	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until the stdio
// transport stops. ctx is not passed to the transport, so cancelling it
// does not stop a running Serve.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.eng.Close() }()
	return server.ServeStdio(s.mcp)
}

// Close releases the underlying engine's backends without serving.
func (s *Server) Close() error {
	return s.eng.Close()
}

func (s *Server) registerTools() {
	s.mcp.AddTool(indexCodebaseTool(), s.handleIndexCodebase)
	s.mcp.AddTool(queryIndexTool(), s.handleQueryIndex)
	s.mcp.AddTool(getIndexStatsTool(), s.handleGetIndexStats)
	s.mcp.AddTool(getFileSymbolsTool(), s.handleGetFileSymbols)
	s.mcp.AddTool(searchFilesTool(), s.handleSearchFiles)
	s.mcp.AddTool(searchSemanticTool(), s.handleSearchSemantic)
}
