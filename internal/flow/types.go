package flow

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// DecisionSep separates a decision node's opaque id from its display text.
	// The ASCII unit separator never occurs in source identifiers.
	DecisionSep = "\x1f"

	// DecisionPrefix starts every bare decision node id.
	DecisionPrefix = "_decision_"

	// NamespaceSep joins a relative file path and a bare node id.
	NamespaceSep = "::"
)

// Edge is one outgoing link of a flow node. An empty Label marks an
// unconditional call; otherwise it names the branch outcome ("True",
// "False", "Loop", a match pattern, ...).
type Edge struct {
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Graph maps a node id to its ordered outgoing edges.
type Graph map[string][]Edge

// LineMap maps a bare function name to its 1-indexed declaration line.
type LineMap map[string]int

// Location is the navigable definition site of a function node.
type Location struct {
	Path string `json:"path"`
	Line int    `json:"line"`
}

// SourceMap maps a namespaced function id to its definition site.
type SourceMap map[string]Location

// DecisionID builds the id of the n-th decision node of a file.
func DecisionID(n int, display string) string {
	return DecisionPrefix + strconv.Itoa(n) + DecisionSep + display
}

// IsDecision reports whether id (bare or namespaced) names a decision node.
func IsDecision(id string) bool {
	return strings.Contains(id, DecisionSep)
}

// DisplayText returns the human-readable part of an id: the text after the
// separator for decision nodes, the bare name for functions.
func DisplayText(id string) string {
	_, bare := SplitNamespaced(id)
	if idx := strings.Index(bare, DecisionSep); idx != -1 {
		return bare[idx+len(DecisionSep):]
	}
	return bare
}

// Namespace prefixes a bare id with the relative path of its file.
func Namespace(relPath, bare string) string {
	return relPath + NamespaceSep + bare
}

// SplitNamespaced splits a namespaced id into file path and bare id. Ids
// without a namespace return an empty path.
func SplitNamespaced(id string) (relPath, bare string) {
	// Display text of a decision may itself contain "::" (Rust paths), so
	// only the part before the separator is searched.
	head := id
	if idx := strings.Index(id, DecisionSep); idx != -1 {
		head = id[:idx]
	}
	idx := strings.Index(head, NamespaceSep)
	if idx == -1 {
		return "", id
	}
	return id[:idx], id[idx+len(NamespaceSep):]
}

// Ensure makes id a key of g without touching existing edges.
func (g Graph) Ensure(id string) {
	if _, ok := g[id]; !ok {
		g[id] = []Edge{}
	}
}

// Add appends an edge to the node id, creating it when missing.
func (g Graph) Add(id string, edge Edge) {
	g[id] = append(g[id], edge)
}

// Keys returns the graph keys in sorted order.
func (g Graph) Keys() []string {
	keys := make([]string, 0, len(g))
	for key := range g {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// EdgeCount returns the total number of edges.
func (g Graph) EdgeCount() int {
	n := 0
	for _, edges := range g {
		n += len(edges)
	}
	return n
}

// DecisionCount returns the number of decision node keys.
func (g Graph) DecisionCount() int {
	n := 0
	for id := range g {
		if IsDecision(id) {
			n++
		}
	}
	return n
}

// Targets returns the targets of id's edges in order.
func (g Graph) Targets(id string) []string {
	edges := g[id]
	out := make([]string, 0, len(edges))
	for _, edge := range edges {
		out = append(out, edge.Target)
	}
	return out
}
