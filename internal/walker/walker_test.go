package walker

import (
	"context"
	"strings"
	"testing"

	"github.com/glyph-dev/glyph/internal/builtins"
	"github.com/glyph-dev/glyph/internal/flow"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

func pythonConfig() *Config {
	return &Config{
		FunctionKinds:       []string{"function_definition"},
		FunctionNameField:   "name",
		AnonFunctionKinds:   []string{"lambda"},
		AnonParentKinds:     []string{"assignment"},
		AnonParentNameField: "left",
		CallKind:            "call",
		CallFunctionField:   "function",
		MethodReceiverKind:  "attribute",
		MethodNameField:     "attribute",
		IfKind:              "if_statement",
		IfConditionField:    "condition",
		IfThenField:         "consequence",
		ElifClauseKind:      "elif_clause",
		ElifConditionField:  "condition",
		ElifBodyField:       "consequence",
		ElseClauseKind:      "else_clause",
		ElseBodyField:       "body",
		ForKinds:            []string{"for_statement"},
		WhileKinds:          []string{"while_statement"},
		LoopBodyField:       "body",
		WhileConditionField: "condition",
		Builtins:            builtins.Python,
		CommentKind:         "comment",
	}
}

func walkPython(t *testing.T, src string, suppress bool) (flow.Graph, flow.LineMap) {
	t.Helper()
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	defer tree.Close()
	return Walk(pythonConfig(), tree.RootNode(), []byte(src), suppress)
}

func findDecision(t *testing.T, g flow.Graph, display string) string {
	t.Helper()
	for id := range g {
		if flow.IsDecision(id) && flow.DisplayText(id) == display {
			return id
		}
	}
	t.Fatalf("no decision %q in %v", display, g.Keys())
	return ""
}

func hasEdge(edges []flow.Edge, target, label string) bool {
	for _, e := range edges {
		if e.Target == target && e.Label == label {
			return true
		}
	}
	return false
}

func TestWalkIfElseLabelsBranches(t *testing.T) {
	g, lines := walkPython(t, `def main():
    if x > 0:
        foo()
    else:
        bar()
`, false)

	id := findDecision(t, g, "if x > 0")
	if !hasEdge(g["main"], id, "") {
		t.Fatalf("expected unlabelled edge main -> decision, got %#v", g["main"])
	}
	if !hasEdge(g[id], "foo", "True") || !hasEdge(g[id], "bar", "False") {
		t.Fatalf("expected True/False branches, got %#v", g[id])
	}
	if lines["main"] != 1 {
		t.Fatalf("expected main on line 1, got %d", lines["main"])
	}
}

func TestWalkElifChainNumbersLabels(t *testing.T) {
	g, _ := walkPython(t, `def route(kind):
    if kind == 1:
        one()
    elif kind == 2:
        two()
    elif kind == 3:
        three()
    else:
        other()
`, false)

	id := findDecision(t, g, "if kind == 1")
	for target, label := range map[string]string{"one": "True", "two": "Elif", "three": "Elif_2", "other": "False"} {
		if !hasEdge(g[id], target, label) {
			t.Fatalf("expected %s -[%s]-> %s, got %#v", id, label, target, g[id])
		}
	}
}

func TestWalkLoopBodyAndHeader(t *testing.T) {
	g, _ := walkPython(t, `def run():
    for item in load_items():
        handle(item)
    while ready():
        tick()
`, false)

	forID := findDecision(t, g, "for")
	if !hasEdge(g[forID], "handle", "Loop") {
		t.Fatalf("expected Loop edge to handle, got %#v", g[forID])
	}
	if !hasEdge(g["run"], "load_items", "") {
		t.Fatalf("expected iterable call in enclosing scope, got %#v", g["run"])
	}

	whileID := findDecision(t, g, "while ready()")
	if !hasEdge(g[whileID], "tick", "Loop") {
		t.Fatalf("expected Loop edge to tick, got %#v", g[whileID])
	}
	if !hasEdge(g["run"], "ready", "") {
		t.Fatalf("expected while condition call in enclosing scope, got %#v", g["run"])
	}
}

func TestWalkFiltersBuiltinsUnlessFlowMarked(t *testing.T) {
	g, _ := walkPython(t, `def plain():
    print("x")
    helper()

# @flow
def traced():
    print("y")
`, false)

	if hasEdge(g["plain"], "print", "") {
		t.Fatalf("expected print to be filtered, got %#v", g["plain"])
	}
	if !hasEdge(g["plain"], "helper", "") {
		t.Fatalf("expected helper edge, got %#v", g["plain"])
	}
	if !hasEdge(g["traced"], "print", "") {
		t.Fatalf("expected @flow function to keep builtin call, got %#v", g["traced"])
	}
}

func TestWalkMethodCallsUseTrailingName(t *testing.T) {
	g, _ := walkPython(t, `def main():
    service.process(load())
`, false)

	if !hasEdge(g["main"], "process", "") || !hasEdge(g["main"], "load", "") {
		t.Fatalf("expected process and argument call load, got %#v", g["main"])
	}
}

func TestWalkSuppressDecisionsGivesFlatGraph(t *testing.T) {
	g, _ := walkPython(t, `def main():
    if x:
        foo()
    for i in items:
        bar()
`, true)

	if g.DecisionCount() != 0 {
		t.Fatalf("expected no decision nodes, got %v", g.Keys())
	}
	if !hasEdge(g["main"], "foo", "") || !hasEdge(g["main"], "bar", "") {
		t.Fatalf("expected flat call edges, got %#v", g["main"])
	}
}

func TestWalkNamesLambdasFromAssignment(t *testing.T) {
	g, lines := walkPython(t, `handler = lambda: dispatch()
`, false)

	if !hasEdge(g["handler"], "dispatch", "") {
		t.Fatalf("expected handler -> dispatch, got %#v", g)
	}
	if lines["handler"] != 1 {
		t.Fatalf("expected handler on line 1, got %d", lines["handler"])
	}
}

func TestWalkFunctionWithoutCallsHasEmptyEdges(t *testing.T) {
	g, _ := walkPython(t, "def idle():\n    pass\n", false)

	edges, ok := g["idle"]
	if !ok || edges == nil || len(edges) != 0 {
		t.Fatalf("expected empty edge list for idle, got %#v (present=%v)", edges, ok)
	}
}

func TestWalkTruncatesLongConditions(t *testing.T) {
	cond := strings.Repeat("a", 30) + " and " + strings.Repeat("b", 30)
	g, _ := walkPython(t, "def main():\n    if "+cond+":\n        go()\n", false)

	for id := range g {
		if !flow.IsDecision(id) {
			continue
		}
		display := flow.DisplayText(id)
		if !strings.HasSuffix(display, "…") {
			t.Fatalf("expected truncated display, got %q", display)
		}
		if got := len([]rune(strings.TrimPrefix(display, "if "))); got != snippetLimit+1 {
			t.Fatalf("expected %d runes after truncation, got %d", snippetLimit+1, got)
		}
		return
	}
	t.Fatalf("no decision node in %v", g.Keys())
}

func TestWalkNilInputs(t *testing.T) {
	g, lines := Walk(nil, nil, nil, false)
	if len(g) != 0 || len(lines) != 0 {
		t.Fatalf("expected empty results, got %v %v", g, lines)
	}
}
