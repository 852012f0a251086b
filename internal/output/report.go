package output

import (
	"sort"

	"github.com/glyph-dev/glyph/internal/crawler"
	"github.com/glyph-dev/glyph/internal/flow"
	"github.com/glyph-dev/glyph/internal/graph"
	"github.com/glyph-dev/glyph/internal/parser"
)

// NodeRecord is one graph node with its location and hierarchy depth.
type NodeRecord struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Kind  string      `json:"kind"` // function | decision
	File  string      `json:"file"`
	Path  string      `json:"path,omitempty"`
	Line  int         `json:"line,omitempty"`
	Depth int         `json:"depth"`
	Edges []flow.Edge `json:"edges"`
}

// EdgeRecord is the flattened edge shape used by jsonl output.
type EdgeRecord struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Report is the full rendering input of a crawl.
type Report struct {
	Root     string                `json:"root"`
	Status   string                `json:"status"`
	Summary  graph.Summary         `json:"summary"`
	Files    []crawler.FileSummary `json:"files"`
	Nodes    []NodeRecord          `json:"nodes"`
	Issues   []parser.ParseIssue   `json:"issues,omitempty"`
	Digest   string                `json:"digest"`
	Duration int64                 `json:"duration_ms"`
}

// BuildReport combines a crawl result with its levelling. Nodes are ordered
// by depth, then id.
func BuildReport(res *crawler.Result, top int) *Report {
	levels := graph.Levels(res.Graph, graph.AllIDs(res.Graph))

	rep := &Report{
		Root:     res.Root,
		Status:   res.Status(),
		Summary:  graph.Summarize(res.Graph, top),
		Files:    res.Files,
		Nodes:    make([]NodeRecord, 0, len(res.Graph)),
		Issues:   res.Issues,
		Digest:   graph.Digest(res.Graph, res.Sources),
		Duration: res.Duration.Milliseconds(),
	}

	for _, id := range res.Graph.Keys() {
		file, _ := flow.SplitNamespaced(id)
		kind := "function"
		if flow.IsDecision(id) {
			kind = "decision"
		}
		rec := NodeRecord{
			ID:    id,
			Name:  flow.DisplayText(id),
			Kind:  kind,
			File:  file,
			Depth: levels[id],
			Edges: res.Graph[id],
		}
		if loc, ok := res.Sources[id]; ok {
			rec.Path = loc.Path
			rec.Line = loc.Line
		}
		rep.Nodes = append(rep.Nodes, rec)
	}

	sort.SliceStable(rep.Nodes, func(i, j int) bool {
		if rep.Nodes[i].Depth != rep.Nodes[j].Depth {
			return rep.Nodes[i].Depth < rep.Nodes[j].Depth
		}
		return rep.Nodes[i].ID < rep.Nodes[j].ID
	})
	return rep
}

// Edges flattens the report into one record per edge.
func (r *Report) Edges() []EdgeRecord {
	out := make([]EdgeRecord, 0)
	for _, node := range r.Nodes {
		for _, e := range node.Edges {
			out = append(out, EdgeRecord{From: node.ID, To: e.Target, Label: e.Label})
		}
	}
	return out
}
