// Package walker turns a tree-sitter syntax tree into a flow graph. One
// recursive algorithm serves every language; grammars differ only in the
// Config they pass in.
package walker

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/glyph-dev/glyph/internal/flow"
	sitter "github.com/smacker/go-tree-sitter"
)

const (
	// AnonName is used for closures whose name cannot be inferred.
	AnonName = "<anon_fn>"

	// FlowMarker in a comment right before a function force-includes it.
	FlowMarker = "@flow"

	snippetLimit = 40
)

type scope struct {
	id       string
	label    string
	function string
}

type walker struct {
	cfg      *Config
	src      []byte
	suppress bool
	forced   map[string]bool
	graph    flow.Graph
	lines    flow.LineMap
	stack    []scope
	counter  int
}

// Walk builds the flow graph of one file together with the declaration line
// of every function. With suppressDecisions set, branches and loops are
// walked transparently and the result is a flat call graph.
func Walk(cfg *Config, root *sitter.Node, src []byte, suppressDecisions bool) (flow.Graph, flow.LineMap) {
	w := &walker{
		cfg:      cfg,
		src:      src,
		suppress: suppressDecisions,
		graph:    flow.Graph{},
		lines:    flow.LineMap{},
	}
	if cfg == nil || root == nil {
		return w.graph, w.lines
	}

	w.forced = collectForceIncludes(cfg, root, src)
	w.walk(root)
	return w.graph, w.lines
}

func (w *walker) walk(n *sitter.Node) {
	if n == nil {
		return
	}
	kind := n.Type()
	cfg := w.cfg

	switch {
	case isTestScope(cfg, n, w.src):
		return
	case cfg.isFunction(kind):
		w.enterFunction(n, functionName(cfg, n, w.src))
		return
	case cfg.isAnonFunction(kind):
		w.enterFunction(n, anonFunctionName(cfg, n, w.src))
		return
	case !w.suppress && cfg.IfKind != "" && kind == cfg.IfKind:
		w.walkIf(n)
		return
	case !w.suppress && cfg.isLoop(kind):
		w.walkLoop(n)
		return
	case !w.suppress && cfg.MatchKind != "" && kind == cfg.MatchKind:
		w.walkMatch(n)
		return
	case cfg.CallKind != "" && kind == cfg.CallKind:
		w.walkCall(n)
		return
	}

	w.walkChildren(n)
}

func (w *walker) walkChildren(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i))
	}
}

func (w *walker) top() (scope, bool) {
	if len(w.stack) == 0 {
		return scope{}, false
	}
	return w.stack[len(w.stack)-1], true
}

func (w *walker) push(s scope) {
	w.stack = append(w.stack, s)
}

func (w *walker) pop() {
	w.stack = w.stack[:len(w.stack)-1]
}

func (w *walker) enterFunction(n *sitter.Node, name string) {
	if _, seen := w.lines[name]; !seen {
		w.lines[name] = int(n.StartPoint().Row) + 1
	}

	w.push(scope{id: name, function: name})
	w.walkChildren(n)
	w.graph.Ensure(name)
	w.pop()
}

// openDecision allocates a decision node and links it from the current scope
// with an unlabeled edge, also when that scope is a branch of another decision.
func (w *walker) openDecision(display string) string {
	w.counter++
	id := flow.DecisionID(w.counter, display)
	if parent, ok := w.top(); ok {
		w.graph.Add(parent.id, flow.Edge{Target: id})
	}
	return id
}

// branch walks body inside the decision id under label.
func (w *walker) branch(id, label string, body *sitter.Node) {
	if body == nil {
		return
	}
	function := ""
	if parent, ok := w.top(); ok {
		function = parent.function
	}
	w.push(scope{id: id, label: label, function: function})
	w.walk(body)
	w.pop()
}

func (w *walker) walkIf(n *sitter.Node) {
	cfg := w.cfg
	cond := field(n, cfg.IfConditionField)
	id := w.openDecision(withSnippet("if", cond, w.src))

	// The condition is evaluated in the enclosing scope.
	w.walk(cond)
	w.branch(id, "True", field(n, cfg.IfThenField))
	w.branch(id, "False", field(n, cfg.IfElseField))

	if cfg.ElifClauseKind != "" {
		elifs := 0
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child == nil || child.Type() != cfg.ElifClauseKind {
				continue
			}
			elifs++
			w.walk(field(child, cfg.ElifConditionField))
			label := "Elif"
			if elifs > 1 {
				label = "Elif_" + strconv.Itoa(elifs)
			}
			w.branch(id, label, field(child, cfg.ElifBodyField))
		}
	}

	if cfg.ElseClauseKind != "" {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child != nil && child.Type() == cfg.ElseClauseKind {
				w.branch(id, "False", field(child, cfg.ElseBodyField))
				break
			}
		}
	}

	w.graph.Ensure(id)
}

func (w *walker) walkLoop(n *sitter.Node) {
	cfg := w.cfg
	kind := n.Type()

	var display string
	switch {
	case contains(cfg.WhileKinds, kind):
		display = withSnippet("while", field(n, cfg.WhileConditionField), w.src)
	case contains(cfg.ForKinds, kind):
		display = "for"
	default:
		display = "loop"
	}
	id := w.openDecision(display)

	body := field(n, cfg.LoopBodyField)
	// Headers (iterables, conditions) run in the enclosing scope.
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || sameNode(child, body) {
			continue
		}
		w.walk(child)
	}
	w.branch(id, "Loop", body)
	w.graph.Ensure(id)
}

func (w *walker) walkMatch(n *sitter.Node) {
	cfg := w.cfg
	keyword := cfg.MatchKeyword
	if keyword == "" {
		keyword = "match"
	}
	value := field(n, cfg.MatchValueField)
	id := w.openDecision(withSnippet(keyword, value, w.src))

	w.walk(value)

	arms := field(n, cfg.MatchBodyField)
	if arms == nil {
		arms = n
	}
	for i := 0; i < int(arms.ChildCount()); i++ {
		arm := arms.Child(i)
		if arm == nil || !cfg.isMatchArm(arm.Type()) {
			continue
		}

		pattern := field(arm, cfg.MatchPatternField)
		label := snippet(pattern, w.src)
		if label == "" {
			label = cfg.MatchDefaultLabel
		}
		if label == "" {
			label = "_"
		}

		function := ""
		if parent, ok := w.top(); ok {
			function = parent.function
		}
		w.push(scope{id: id, label: label, function: function})
		for k := 0; k < int(arm.ChildCount()); k++ {
			sub := arm.Child(k)
			if sub == nil || sameNode(sub, pattern) {
				continue
			}
			w.walk(sub)
		}
		w.pop()
	}

	w.graph.Ensure(id)
}

func (w *walker) walkCall(n *sitter.Node) {
	callee := calleeName(w.cfg, field(n, w.cfg.CallFunctionField), w.src)
	if callee != "" && !w.filtered(callee) {
		if current, ok := w.top(); ok {
			w.graph.Add(current.id, flow.Edge{Target: callee, Label: current.label})
		}
	}

	// Arguments and chained receivers hold further calls.
	w.walkChildren(n)
}

// filtered reports whether a builtin callee should be dropped. @flow on the
// callee or on the enclosing function keeps it.
func (w *walker) filtered(callee string) bool {
	if !w.cfg.isBuiltin(callee) {
		return false
	}
	if w.forced[callee] {
		return false
	}
	if current, ok := w.top(); ok && current.function != "" && w.forced[current.function] {
		return false
	}
	return true
}

func calleeName(cfg *Config, fn *sitter.Node, src []byte) string {
	if fn == nil {
		return ""
	}
	kind := fn.Type()
	switch {
	case cfg.MethodReceiverKind != "" && kind == cfg.MethodReceiverKind:
		if name := text(field(fn, cfg.MethodNameField), src); name != "" {
			return name
		}
	case cfg.PathCallKind != "" && kind == cfg.PathCallKind:
		nameField := cfg.PathNameField
		if nameField == "" {
			nameField = "name"
		}
		if name := text(field(fn, nameField), src); name != "" {
			return name
		}
	}
	return text(fn, src)
}

func functionName(cfg *Config, n *sitter.Node, src []byte) string {
	if name := text(field(n, cfg.FunctionNameField), src); name != "" {
		return name
	}
	return AnonName
}

func anonFunctionName(cfg *Config, n *sitter.Node, src []byte) string {
	parent := n.Parent()
	if parent == nil || !contains(cfg.AnonParentKinds, parent.Type()) {
		return AnonName
	}
	if name := text(field(parent, cfg.AnonParentNameField), src); name != "" {
		return name
	}
	return AnonName
}

func isTestScope(cfg *Config, n *sitter.Node, src []byte) bool {
	if cfg.TestScopeKind == "" || n.Type() != cfg.TestScopeKind {
		return false
	}
	return contains(cfg.TestScopeNames, text(field(n, cfg.TestScopeNameField), src))
}

func field(n *sitter.Node, name string) *sitter.Node {
	if n == nil || name == "" {
		return nil
	}
	return n.ChildByFieldName(name)
}

func text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	start, end := int(n.StartByte()), int(n.EndByte())
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return strings.TrimSpace(string(src[start:end]))
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// snippet returns the node text on one line, cut to snippetLimit runes.
func snippet(n *sitter.Node, src []byte) string {
	s := strings.Join(strings.Fields(text(n, src)), " ")
	if utf8.RuneCountInString(s) <= snippetLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:snippetLimit]) + "…"
}

func withSnippet(keyword string, n *sitter.Node, src []byte) string {
	if s := snippet(n, src); s != "" {
		return keyword + " " + s
	}
	return keyword
}
