// Package server exposes crawls over the Model Context Protocol.
package server

import (
	"encoding/json"
	"fmt"

	"github.com/glyph-dev/glyph/internal/config"
	"github.com/glyph-dev/glyph/internal/crawler"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp     *mcp.Server
	crawler *crawler.Crawler
}

// New creates a server with every tool registered. A nil crawler uses all
// built-in languages.
func New(version string, c *crawler.Crawler) *Server {
	if c == nil {
		c = crawler.New(nil)
	}
	srv := &Server{
		crawler: c,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "glyph",
				Version: version,
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "crawl",
		Description: "Crawl a directory of Rust, Python and TypeScript/JavaScript sources into a control-flow graph. Nodes are namespaced functions and branch/loop decisions; edges carry branch labels. Returns nodes ordered by hierarchy depth with file:line locations.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"root": {
					"type": "string",
					"description": "Directory to crawl."
				},
				"suppress_decisions": {
					"type": "boolean",
					"description": "Emit a flat call graph without branch and loop nodes."
				},
				"top": {
					"type": "integer",
					"description": "Number of most-called nodes to list in the summary (default 5)."
				}
			},
			"required": ["root"]
		}`),
	}, s.handleCrawl)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "trace_flow",
		Description: "List every node and edge on any simple path from a source node to a sink node. Nodes resolve by exact id, then bare name, then substring.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"root": {
					"type": "string",
					"description": "Directory to crawl."
				},
				"source": {
					"type": "string",
					"description": "Start node (e.g. 'main' or 'src/app.py::main')."
				},
				"sink": {
					"type": "string",
					"description": "End node."
				}
			},
			"required": ["root", "source", "sink"]
		}`),
	}, s.handleTraceFlow)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "levels",
		Description: "Assign every node its hierarchy depth: roots at 0, callees below their deepest caller.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"root": {
					"type": "string",
					"description": "Directory to crawl."
				}
			},
			"required": ["root"]
		}`),
	}, s.handleLevels)
}

// crawl loads the root's config and runs one crawl. An explicit suppress
// argument wins over the config value.
func (s *Server) crawl(root string, args map[string]any) (*crawler.Result, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	suppress := cfg.SuppressDecisions
	if _, ok := args["suppress_decisions"]; ok {
		suppress = getBoolArg(args, "suppress_decisions")
	}
	return s.crawler.Run(crawler.Request{
		Root:              root,
		SuppressDecisions: suppress,
		Ignore:            cfg.Ignore,
	}), nil
}

// jsonResult marshals data to JSON and returns it as a tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

func getStringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func getIntArg(args map[string]any, key string, defaultVal int) int {
	f, ok := args[key].(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

func getBoolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}
