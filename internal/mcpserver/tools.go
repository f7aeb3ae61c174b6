package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codelensd/engine/internal/engine"
	"github.com/codelensd/engine/pkg/types"
)

// MCP error codes, numbered the way the JSON-RPC spec reserves -32000..-32099
// for server-defined application errors.
const (
	ErrorCodeInvalidParams      = -32602
	ErrorCodeInternalError      = -32603
	ErrorCodeProjectNotFound    = -32001
	ErrorCodeIndexingInProgress = -32002
	ErrorCodeNotIndexed         = -32003
	ErrorCodeEmptyQuery         = -32004
)

// handleIndexCodebase handles the index_codebase tool invocation.
func (s *Server) handleIndexCodebase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param": "path",
		})
	}

	forceReindex := getBoolDefault(args, "force_reindex", false)

	result, err := s.eng.IndexCodebase(ctx, path, forceReindex)
	if err != nil {
		return nil, translateEngineError("index_codebase", err)
	}

	response := map[string]interface{}{
		"success":       result.Success,
		"total_files":   result.TotalFiles,
		"total_symbols": result.TotalSymbols,
		"languages":     result.Languages,
		"duration_ms":   result.DurationMs,
		"errors":        result.Errors,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleQueryIndex handles the query_index tool invocation.
func (s *Server) handleQueryIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	keywords := getStringSlice(args, "keywords")
	if len(keywords) == 0 {
		return nil, newMCPError(ErrorCodeEmptyQuery, "keywords parameter is required and cannot be empty", nil)
	}

	kinds, err := parseSymbolKinds(getStringSlice(args, "symbol_kinds"))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid symbol_kinds", map[string]interface{}{"error": err.Error()})
	}

	query := engine.IndexQuery{
		Keywords:       keywords,
		SymbolKinds:    kinds,
		FilePatterns:   getStringSlice(args, "file_patterns"),
		NamingPatterns: getStringSlice(args, "naming_patterns"),
		MaxResults:     getIntDefault(args, "max_results", 50),
	}

	chunks, err := s.eng.QueryIndex(ctx, query)
	if err != nil {
		return nil, translateEngineError("query_index", err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"results": chunksToResponse(chunks),
	})), nil
}

// handleGetIndexStats handles the get_index_stats tool invocation.
func (s *Server) handleGetIndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.eng.GetIndexStats()
	if err != nil {
		return nil, translateEngineError("get_index_stats", err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"total_files": stats.TotalFiles,
		"languages":   stats.Languages,
		"root_path":   stats.RootPath,
		"indexed_at":  stats.IndexedAt,
		"health": map[string]interface{}{
			"full_text_open":    stats.Health.FullTextOpen,
			"vector_index_open": stats.Health.VectorIndexOpen,
			"embedder_ready":    stats.Health.EmbedderReady,
		},
	})), nil
}

// handleGetFileSymbols handles the get_file_symbols tool invocation.
func (s *Server) handleGetFileSymbols(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	filePath, ok := args["file_path"].(string)
	if !ok || filePath == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "file_path parameter is required", nil)
	}

	symbols, err := s.eng.GetFileSymbols(filePath)
	if err != nil {
		return nil, translateEngineError("get_file_symbols", err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"symbols": symbolsToResponse(symbols),
	})), nil
}

// handleSearchFiles handles the search_files tool invocation.
func (s *Server) handleSearchFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", nil)
	}

	maxResults := getIntDefault(args, "max_results", 50)

	paths, err := s.eng.SearchFiles(query, maxResults)
	if err != nil {
		return nil, translateEngineError("search_files", err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"paths": paths,
	})), nil
}

// handleSearchSemantic handles the search_semantic tool invocation.
func (s *Server) handleSearchSemantic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", nil)
	}

	maxResults := getIntDefault(args, "max_results", 10)

	chunks, err := s.eng.SearchSemantic(ctx, query, maxResults)
	if err != nil {
		return nil, translateEngineError("search_semantic", err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"results": chunksToResponse(chunks),
	})), nil
}

// Helper functions

// newMCPError creates a structured application error; mcp-go encodes it as
// a JSON-RPC error response.
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

// MCPError is an MCP/JSON-RPC protocol error.
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// translateEngineError maps a sentinel engine error to its MCP error code,
// falling back to an internal error for anything unrecognized.
func translateEngineError(op string, err error) error {
	switch {
	case errors.Is(err, types.ErrProjectNotFound):
		return newMCPError(ErrorCodeProjectNotFound, "project path does not exist", map[string]interface{}{"op": op})
	case errors.Is(err, types.ErrIndexingInProgress):
		return newMCPError(ErrorCodeIndexingInProgress, "indexing already in progress for this project", map[string]interface{}{"op": op})
	case errors.Is(err, types.ErrNotIndexed):
		return newMCPError(ErrorCodeNotIndexed, "project has not been indexed", map[string]interface{}{"op": op})
	case errors.Is(err, types.ErrEmbedderUnavailable):
		return newMCPError(ErrorCodeNotIndexed, "project was indexed without an embedder; semantic search is unavailable", map[string]interface{}{"op": op})
	case errors.Is(err, types.ErrEmptyQuery):
		return newMCPError(ErrorCodeEmptyQuery, "query must not be empty", map[string]interface{}{"op": op})
	default:
		return newMCPError(ErrorCodeInternalError, fmt.Sprintf("%s failed", op), map[string]interface{}{"error": err.Error()})
	}
}

func formatJSON(data map[string]interface{}) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(b)
}

func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return defaultValue
}

func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return defaultValue
	}
}

func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseSymbolKinds(raw []string) ([]types.SymbolKind, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	kinds := make([]types.SymbolKind, 0, len(raw))
	for _, s := range raw {
		k := types.SymbolKind(s)
		sym := types.Symbol{Kind: k, Name: "x", FilePath: "x", StartLine: 1, EndLine: 1}
		if err := sym.ValidateKind(); err != nil {
			return nil, fmt.Errorf("unrecognized symbol kind %q", s)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func chunksToResponse(chunks []types.CodeChunk) []map[string]interface{} {
	out := make([]map[string]interface{}, len(chunks))
	for i, c := range chunks {
		out[i] = map[string]interface{}{
			"file_path":       c.FilePath,
			"start_line":      c.StartLine,
			"end_line":        c.EndLine,
			"language":        c.Language,
			"content":         c.Content,
			"relevance_score": c.RelevanceScore,
			"symbols":         symbolsToResponse(c.Symbols),
		}
	}
	return out
}

func symbolsToResponse(symbols []types.Symbol) []map[string]interface{} {
	out := make([]map[string]interface{}, len(symbols))
	for i, sym := range symbols {
		out[i] = map[string]interface{}{
			"name":        sym.Name,
			"kind":        sym.Kind,
			"file_path":   sym.FilePath,
			"language":    sym.Language,
			"signature":   sym.Signature,
			"doc_comment": sym.DocComment,
			"start_line":  sym.StartLine,
			"end_line":    sym.EndLine,
		}
	}
	return out
}
