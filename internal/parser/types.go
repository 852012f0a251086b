package parser

import "github.com/glyph-dev/glyph/internal/flow"

// FileGraph holds the flow graph extracted from a single file, before
// namespacing.
type FileGraph struct {
	Path     string // relative to the crawl root, slash separated
	AbsPath  string
	Language string
	Graph    flow.Graph
	Lines    flow.LineMap
	Hash     string // content hash, used to detect unchanged files
}

// Functions returns the number of non-decision nodes.
func (f *FileGraph) Functions() int {
	return len(f.Graph) - f.Graph.DecisionCount()
}

// ParseIssue captures non-fatal parser warnings/errors encountered while scanning files.
type ParseIssue struct {
	File     string `json:"file"`
	Language string `json:"language,omitempty"`
	Severity string `json:"severity"` // warning | error
	Message  string `json:"message"`
}

// ParseResult holds the per-file graphs for a directory.
type ParseResult struct {
	Files    []FileGraph
	RootPath string
	Issues   []ParseIssue
}
