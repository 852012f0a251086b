package server

import (
	"context"
	"fmt"

	"github.com/glyph-dev/glyph/internal/graph"
	"github.com/glyph-dev/glyph/internal/output"
	"github.com/glyph-dev/glyph/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultTop = 5

func (s *Server) handleCrawl(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	root := getStringArg(args, "root")
	if root == "" {
		return errResult("root is required"), nil
	}

	res, err := s.crawl(root, args)
	if err != nil {
		return errResult(fmt.Sprintf("load config: %v", err)), nil
	}
	if !res.Found() {
		return errResult(res.Status()), nil
	}
	return jsonResult(output.BuildReport(res, getIntArg(args, "top", defaultTop))), nil
}

func (s *Server) handleTraceFlow(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	root := getStringArg(args, "root")
	if root == "" {
		return errResult("root is required"), nil
	}

	res, err := s.crawl(root, args)
	if err != nil {
		return errResult(fmt.Sprintf("load config: %v", err)), nil
	}
	if !res.Found() {
		return errResult(res.Status()), nil
	}

	source, sink := getStringArg(args, "source"), getStringArg(args, "sink")
	trace := graph.Trace(res.Graph, source, sink)
	out := map[string]any{
		"trace":    trace,
		"shortest": []string{},
	}
	switch {
	case trace.Found():
		out["shortest"] = graph.ShortestPath(res.Graph, trace.Source, trace.Sink)
	case trace.Source == "":
		out["suggestions"] = search.Suggest(res.Graph, source, 3)
	case trace.Sink == "":
		out["suggestions"] = search.Suggest(res.Graph, sink, 3)
	}
	return jsonResult(out), nil
}

func (s *Server) handleLevels(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	root := getStringArg(args, "root")
	if root == "" {
		return errResult("root is required"), nil
	}

	res, err := s.crawl(root, args)
	if err != nil {
		return errResult(fmt.Sprintf("load config: %v", err)), nil
	}
	if !res.Found() {
		return errResult(res.Status()), nil
	}
	levels := graph.Levels(res.Graph, graph.AllIDs(res.Graph))
	return jsonResult(map[string]any{
		"levels": levels,
		"layers": graph.Layers(levels),
	}), nil
}
