package walker

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// collectForceIncludes finds every named function preceded by a comment
// containing FlowMarker. Test scopes are skipped.
func collectForceIncludes(cfg *Config, root *sitter.Node, src []byte) map[string]bool {
	forced := map[string]bool{}
	if cfg.CommentKind == "" {
		return forced
	}

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n == nil || isTestScope(cfg, n, src) {
			return
		}
		if cfg.isFunction(n.Type()) && markedForFlow(cfg, n, src) {
			if name := text(field(n, cfg.FunctionNameField), src); name != "" {
				forced[name] = true
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)
	return forced
}

// markedForFlow checks the previous named sibling. A function wrapped by an
// export or decorator node with no sibling of its own looks one level up.
func markedForFlow(cfg *Config, n *sitter.Node, src []byte) bool {
	prev := n.PrevNamedSibling()
	if prev == nil {
		if parent := n.Parent(); parent != nil {
			prev = parent.PrevNamedSibling()
		}
	}
	if prev == nil || prev.Type() != cfg.CommentKind {
		return false
	}
	return strings.Contains(text(prev, src), FlowMarker)
}
