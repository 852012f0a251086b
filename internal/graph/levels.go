// Package graph holds the algorithms that run on a crawled flow graph:
// hierarchy levels, flow tracing, ranking and digests.
package graph

import (
	"log/slog"
	"sort"

	"github.com/glyph-dev/glyph/internal/fileutil"
	"github.com/glyph-dev/glyph/internal/flow"
)

// Unresolved marks a node whose depth is not known yet.
const Unresolved = -1

// AllIDs returns every key and edge target of g, sorted.
func AllIDs(g flow.Graph) []string {
	ids := make([]string, 0, len(g))
	for id, edges := range g {
		ids = append(ids, id)
		for _, e := range edges {
			ids = append(ids, e.Target)
		}
	}
	return fileutil.SortedUnique(ids)
}

// callers builds the reverse adjacency of g without self-edges.
func callers(g flow.Graph) map[string][]string {
	rev := make(map[string][]string)
	for _, caller := range g.Keys() {
		for _, e := range g[caller] {
			if e.Target == caller {
				continue
			}
			rev[e.Target] = append(rev[e.Target], caller)
		}
	}
	for id, list := range rev {
		rev[id] = fileutil.SortedUnique(list)
	}
	return rev
}

// Levels assigns every id a hierarchy depth: 0 for nodes without callers,
// otherwise one more than the deepest known caller. Depths never exceed
// len(allIDs)-1 so cycles reachable from a root saturate instead of growing.
// Nodes on cycles unreachable from any root are placed one level below the
// deepest resolved node.
func Levels(g flow.Graph, allIDs []string) map[string]int {
	ids := fileutil.SortedUnique(allIDs)
	rev := callers(g)

	levels := make(map[string]int, len(ids))
	for _, id := range ids {
		if len(rev[id]) == 0 {
			levels[id] = 0
		} else {
			levels[id] = Unresolved
		}
	}

	maxDepth := len(ids) - 1
	if maxDepth < 0 {
		maxDepth = 0
	}

	passes := 0
	for passes < len(ids)+2 {
		passes++
		changed := false
		for _, id := range ids {
			deepest := Unresolved
			for _, caller := range rev[id] {
				if d, ok := levels[caller]; ok && d > deepest {
					deepest = d
				}
			}
			if deepest == Unresolved {
				continue
			}
			next := deepest + 1
			if next > maxDepth {
				next = maxDepth
			}
			if next > levels[id] {
				levels[id] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	maxResolved := Unresolved
	var stuck []string
	for _, id := range ids {
		if levels[id] == Unresolved {
			stuck = append(stuck, id)
		} else if levels[id] > maxResolved {
			maxResolved = levels[id]
		}
	}
	if len(stuck) > 0 {
		slog.Warn("levels.cycle", "nodes", len(stuck), "depth", maxResolved+1, "passes", passes)
		for _, id := range stuck {
			levels[id] = maxResolved + 1
		}
	}

	return levels
}

// Layers groups ids by depth. Each layer is sorted.
func Layers(levels map[string]int) [][]string {
	if len(levels) == 0 {
		return nil
	}
	deepest := 0
	for _, d := range levels {
		if d > deepest {
			deepest = d
		}
	}
	layers := make([][]string, deepest+1)
	for id, d := range levels {
		if d < 0 {
			continue
		}
		layers[d] = append(layers[d], id)
	}
	for _, layer := range layers {
		sort.Strings(layer)
	}
	return layers
}
