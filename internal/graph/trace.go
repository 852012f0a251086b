package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/glyph-dev/glyph/internal/fileutil"
	"github.com/glyph-dev/glyph/internal/flow"
)

const (
	// maxTracePaths bounds the simple-path enumeration on dense graphs.
	maxTracePaths = 10000
	// maxTraceSteps bounds the number of DFS expansions, successful or not.
	maxTraceSteps = 1000000
)

// TraceEdge is one edge lying on a traced path.
type TraceEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// TraceResult lists every node and edge on some simple path from Source to
// Sink.
type TraceResult struct {
	Source    string      `json:"source,omitempty"`
	Sink      string      `json:"sink,omitempty"`
	Nodes     []string    `json:"nodes"`
	Edges     []TraceEdge `json:"edges"`
	Paths     int         `json:"paths"`
	Truncated bool        `json:"truncated,omitempty"`
	Status    string      `json:"status"`
}

// Found reports whether at least one path exists.
func (r *TraceResult) Found() bool {
	return r.Paths > 0
}

// ResolveNode maps a user query onto a node id: exact id first, then exact
// display name, then the first id containing the query.
func ResolveNode(g flow.Graph, query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}
	if _, ok := g[query]; ok {
		return query, true
	}

	ids := g.Keys()
	for _, id := range ids {
		if flow.DisplayText(id) == query {
			return id, true
		}
	}
	for _, id := range ids {
		if strings.Contains(id, query) {
			return id, true
		}
	}
	return "", false
}

// Trace resolves source and sink and collects every simple path between
// them.
func Trace(g flow.Graph, source, sink string) *TraceResult {
	source = strings.TrimSpace(source)
	sink = strings.TrimSpace(sink)
	res := &TraceResult{Nodes: []string{}, Edges: []TraceEdge{}}

	if source == "" || sink == "" {
		res.Status = "Trace: requires <source> and <sink>"
		return res
	}

	from, ok := ResolveNode(g, source)
	if !ok {
		res.Status = fmt.Sprintf("Trace: Could not find source node '%s'", source)
		return res
	}
	to, ok := ResolveNode(g, sink)
	if !ok {
		res.Status = fmt.Sprintf("Trace: Could not find sink node '%s'", sink)
		return res
	}
	res.Source, res.Sink = from, to

	live := reaching(g, to)
	if !live[from] {
		res.Status = fmt.Sprintf("Trace: No path found from '%s' to '%s'", source, sink)
		return res
	}

	steps := 0
	nodes := map[string]bool{}
	edges := map[TraceEdge]bool{}
	visited := map[string]bool{}
	var path []TraceEdge

	var dfs func(current string)
	dfs = func(current string) {
		steps++
		if res.Paths >= maxTracePaths || steps > maxTraceSteps {
			res.Truncated = true
			return
		}
		if current == to {
			res.Paths++
			nodes[from] = true
			nodes[to] = true
			for _, e := range path {
				nodes[e.From] = true
				nodes[e.To] = true
				edges[e] = true
			}
			return
		}

		visited[current] = true
		for _, e := range g[current] {
			if visited[e.Target] || !live[e.Target] {
				continue
			}
			path = append(path, TraceEdge{From: current, To: e.Target, Label: e.Label})
			dfs(e.Target)
			path = path[:len(path)-1]
		}
		visited[current] = false
	}
	dfs(from)

	if res.Paths == 0 {
		res.Status = fmt.Sprintf("Trace: No path found from '%s' to '%s'", source, sink)
		return res
	}

	res.Nodes = fileutil.MapKeysSorted(nodes)
	for e := range edges {
		res.Edges = append(res.Edges, e)
	}
	sort.Slice(res.Edges, func(i, j int) bool {
		a, b := res.Edges[i], res.Edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Label < b.Label
	})
	res.Status = "Trace: Path found and highlighted"
	return res
}

// reaching returns every node with a path to sink, sink included.
func reaching(g flow.Graph, sink string) map[string]bool {
	rev := callers(g)
	seen := map[string]bool{sink: true}
	queue := []string{sink}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, caller := range rev[current] {
			if !seen[caller] {
				seen[caller] = true
				queue = append(queue, caller)
			}
		}
	}
	return seen
}

// ShortestPath returns the fewest-edge path from fromID to toID, or nil.
func ShortestPath(g flow.Graph, fromID, toID string) []string {
	if fromID == toID {
		return []string{fromID}
	}

	queue := []string{fromID}
	visited := map[string]bool{fromID: true}
	parent := map[string]string{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range g[current] {
			nextID := e.Target
			if visited[nextID] {
				continue
			}
			visited[nextID] = true
			parent[nextID] = current
			if nextID == toID {
				return ReconstructPath(parent, fromID, toID)
			}
			queue = append(queue, nextID)
		}
	}

	return nil
}

func ReconstructPath(parent map[string]string, fromID, toID string) []string {
	out := []string{toID}
	for current := toID; current != fromID; {
		prev, ok := parent[current]
		if !ok {
			return nil
		}
		out = append(out, prev)
		current = prev
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
