package graph

import (
	"sort"

	"github.com/glyph-dev/glyph/internal/flow"
)

// Summary describes the shape of a crawled graph.
type Summary struct {
	Nodes     int          `json:"nodes"`
	Edges     int          `json:"edges"`
	Functions int          `json:"functions"`
	Decisions int          `json:"decisions"`
	Files     int          `json:"files"`
	Depth     int          `json:"depth"`
	Roots     []string     `json:"roots"`
	Top       []RankedNode `json:"top,omitempty"`
}

// Summarize computes counts, roots (depth-0 function nodes) and the top
// ranked functions.
func Summarize(g flow.Graph, top int) Summary {
	levels := Levels(g, AllIDs(g))
	s := Summary{
		Nodes:     len(g),
		Edges:     g.EdgeCount(),
		Decisions: g.DecisionCount(),
		Roots:     []string{},
	}
	s.Functions = s.Nodes - s.Decisions

	files := map[string]bool{}
	for id := range g {
		if path, _ := flow.SplitNamespaced(id); path != "" {
			files[path] = true
		}
	}
	s.Files = len(files)

	for id, depth := range levels {
		if depth > s.Depth {
			s.Depth = depth
		}
		if depth == 0 && !flow.IsDecision(id) {
			s.Roots = append(s.Roots, id)
		}
	}
	sort.Strings(s.Roots)

	if top > 0 {
		s.Top = TopNodes(g, top)
	}
	return s
}
