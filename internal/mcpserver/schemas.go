package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexCodebaseTool returns the tool definition for index_codebase.
func indexCodebaseTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_codebase",
		Description: "Build or load the cached index for a project directory",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project root",
				},
				"force_reindex": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, rebuild from source even when a valid cache exists",
					"default":     false,
				},
			},
			Required: []string{"path"},
		},
	}
}

// queryIndexTool returns the tool definition for query_index.
func queryIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query_index",
		Description: "Run hybrid (traditional + full-text + semantic) search over the currently loaded project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"keywords": map[string]interface{}{
					"type":        "array",
					"description": "Search terms; also concatenated as the semantic query text",
					"items":       map[string]interface{}{"type": "string"},
				},
				"symbol_kinds": map[string]interface{}{
					"type":        "array",
					"description": "Restrict results to these symbol kinds",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"function", "method", "class", "struct", "interface", "enum", "constant", "variable", "import", "export"},
					},
				},
				"file_patterns": map[string]interface{}{
					"type":        "array",
					"description": "Glob patterns (doublestar syntax) results must match",
					"items":       map[string]interface{}{"type": "string"},
				},
				"naming_patterns": map[string]interface{}{
					"type":        "array",
					"description": "Restrict results to symbols tagged with these naming conventions",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"repository", "service", "handler", "controller", "entity"},
					},
				},
				"max_results": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of fused results to return",
					"default":     50,
					"minimum":     1,
					"maximum":     500,
				},
			},
			Required: []string{"keywords"},
		},
	}
}

// getIndexStatsTool returns the tool definition for get_index_stats.
func getIndexStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_index_stats",
		Description: "Report file/language counts and per-backend health for the currently loaded project",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getFileSymbolsTool returns the tool definition for get_file_symbols.
func getFileSymbolsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_file_symbols",
		Description: "List the symbols declared in a single indexed file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Path as recorded in the index, relative to the project root, or a bare file name",
				},
			},
			Required: []string{"file_path"},
		},
	}
}

// searchFilesTool returns the tool definition for search_files.
func searchFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_files",
		Description: "Search indexed file paths by substring or glob, without content ranking",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Substring or doublestar glob to match against indexed file paths",
				},
				"max_results": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of paths to return",
					"default":     50,
					"minimum":     1,
					"maximum":     500,
				},
			},
			Required: []string{"query"},
		},
	}
}

// searchSemanticTool returns the tool definition for search_semantic.
func searchSemanticTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_semantic",
		Description: "Vector-only search over the currently loaded project; requires the project to have been indexed with embeddings",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language description of the code being sought",
				},
				"max_results": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of chunks to return",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}
