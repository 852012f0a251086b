package graph

import (
	"sort"

	"github.com/glyph-dev/glyph/internal/flow"
)

// RankedNode is a node with its PageRank score.
type RankedNode struct {
	ID   string  `json:"id"`
	Rank float64 `json:"rank"`
}

// PageRank computes importance scores for all function nodes. Decision
// nodes are collapsed: a call made under a branch counts as a call from the
// enclosing function.
func PageRank(g flow.Graph, iterations int, dampingFactor float64) map[string]float64 {
	calls := functionCalls(g)
	n := float64(len(calls))
	ranks := make(map[string]float64, len(calls))
	if n == 0 {
		return ranks
	}

	// Initialize all nodes with equal rank
	for id := range calls {
		ranks[id] = 1.0 / n
	}

	inEdges := make(map[string][]string, len(calls))
	for caller, callees := range calls {
		for _, callee := range callees {
			inEdges[callee] = append(inEdges[callee], caller)
		}
	}

	for i := 0; i < iterations; i++ {
		newRanks := make(map[string]float64, len(calls))
		for id := range calls {
			rank := (1 - dampingFactor) / n

			// Sum contributions from incoming edges
			for _, inID := range inEdges[id] {
				outDegree := float64(len(calls[inID]))
				if outDegree > 0 {
					rank += dampingFactor * (ranks[inID] / outDegree)
				}
			}
			newRanks[id] = rank
		}
		ranks = newRanks
	}

	return ranks
}

// TopNodes returns the n highest ranked function nodes.
func TopNodes(g flow.Graph, n int) []RankedNode {
	ranks := PageRank(g, 20, 0.85)
	nodes := make([]RankedNode, 0, len(ranks))
	for id, rank := range ranks {
		nodes = append(nodes, RankedNode{ID: id, Rank: rank})
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Rank == nodes[j].Rank {
			return nodes[i].ID < nodes[j].ID
		}
		return nodes[i].Rank > nodes[j].Rank
	})

	if n > len(nodes) {
		n = len(nodes)
	}
	return nodes[:n]
}

// functionCalls flattens g to function -> distinct called functions,
// looking through decision nodes.
func functionCalls(g flow.Graph) map[string][]string {
	out := make(map[string][]string)
	for _, id := range g.Keys() {
		if flow.IsDecision(id) {
			continue
		}
		seen := map[string]bool{}
		visited := map[string]bool{}
		stack := []string{id}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, e := range g[current] {
				if flow.IsDecision(e.Target) {
					if !visited[e.Target] {
						visited[e.Target] = true
						stack = append(stack, e.Target)
					}
					continue
				}
				if e.Target != id && !seen[e.Target] {
					seen[e.Target] = true
					out[id] = append(out[id], e.Target)
				}
			}
		}
		if out[id] == nil {
			out[id] = []string{}
		}
		sort.Strings(out[id])
	}
	return out
}
