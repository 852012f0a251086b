package languages

import (
	"testing"

	"github.com/glyph-dev/glyph/internal/flow"
)

func edgeTo(edges []flow.Edge, target, label string) bool {
	for _, e := range edges {
		if e.Target == target && e.Label == label {
			return true
		}
	}
	return false
}

func decisionByDisplay(t *testing.T, g flow.Graph, display string) string {
	t.Helper()
	for id := range g {
		if flow.IsDecision(id) && flow.DisplayText(id) == display {
			return id
		}
	}
	t.Fatalf("expected decision %q, got keys %q", display, g.Keys())
	return ""
}

func TestRustIfElseBranches(t *testing.T) {
	g, lines := NewRustParser().ParseWithLines([]byte(`fn main() {
    if x > 0 {
        foo();
    } else {
        bar();
    }
}
`), false)

	id := decisionByDisplay(t, g, "if x > 0")
	if !edgeTo(g["main"], id, "") {
		t.Fatalf("expected main -> %q, got %#v", id, g["main"])
	}
	if !edgeTo(g[id], "foo", "True") || !edgeTo(g[id], "bar", "False") {
		t.Fatalf("expected True/False edges, got %#v", g[id])
	}
	if lines["main"] != 1 {
		t.Fatalf("expected main on line 1, got %d", lines["main"])
	}
}

func TestRustNestedDecisionLinkedUnlabeled(t *testing.T) {
	g, _ := NewRustParser().ParseWithLines([]byte(`fn f(x: bool, y: bool) {
    if x {
        if y {
            a();
        }
    } else {
        b();
    }
}
`), false)

	outer := decisionByDisplay(t, g, "if x")
	inner := decisionByDisplay(t, g, "if y")
	if !edgeTo(g[outer], inner, "") {
		t.Fatalf("expected unlabeled %q -> %q, got %#v", outer, inner, g[outer])
	}
	if edgeTo(g[outer], inner, "True") {
		t.Fatalf("nested decision edge must not carry the branch label, got %#v", g[outer])
	}
	if !edgeTo(g[outer], "b", "False") || !edgeTo(g[inner], "a", "True") {
		t.Fatalf("expected branch calls to keep labels, got %#v / %#v", g[outer], g[inner])
	}
	if !edgeTo(g["f"], outer, "") {
		t.Fatalf("expected f -> %q, got %#v", outer, g["f"])
	}
}

func TestRustMatchArmsUsePatternText(t *testing.T) {
	g := NewRustParser().Parse([]byte(`fn route(x: i32) {
    match x {
        1 => one(),
        2 => two(),
        _ => other(),
    }
}
`))

	id := decisionByDisplay(t, g, "match x")
	for target, label := range map[string]string{"one": "1", "two": "2", "other": "_"} {
		if !edgeTo(g[id], target, label) {
			t.Fatalf("expected %s -[%s]-> %s, got %#v", id, label, target, g[id])
		}
	}
}

func TestRustLoopsAndCallShapes(t *testing.T) {
	g := NewRustParser().Parse([]byte(`fn run() {
    for item in items() {
        handle(item);
    }
    loop {
        self.tick();
    }
    let cfg = Config::load();
    let v = Vec::new();
}
`))

	forID := decisionByDisplay(t, g, "for")
	if !edgeTo(g[forID], "handle", "Loop") {
		t.Fatalf("expected for body edge, got %#v", g[forID])
	}
	loopID := decisionByDisplay(t, g, "loop")
	if !edgeTo(g[loopID], "tick", "Loop") {
		t.Fatalf("expected method name tick in loop body, got %#v", g[loopID])
	}
	if !edgeTo(g["run"], "load", "") {
		t.Fatalf("expected scoped call to resolve to load, got %#v", g["run"])
	}
	if edgeTo(g["run"], "new", "") {
		t.Fatalf("expected builtin new to be filtered, got %#v", g["run"])
	}
}

func TestRustSkipsTestModules(t *testing.T) {
	g := NewRustParser().Parse([]byte(`fn real() {}

#[cfg(test)]
mod tests {
    fn helper() {
        real();
    }
}
`))

	if _, ok := g["real"]; !ok {
		t.Fatalf("expected real in graph, got %q", g.Keys())
	}
	if _, ok := g["helper"]; ok {
		t.Fatalf("expected test module functions to be skipped, got %q", g.Keys())
	}
}

func TestRustFlowMarkerKeepsBuiltins(t *testing.T) {
	g := NewRustParser().Parse([]byte(`// @flow
fn traced(x: Option<u8>) {
    x.unwrap();
}

fn plain(x: Option<u8>) {
    x.unwrap();
}
`))

	if !edgeTo(g["traced"], "unwrap", "") {
		t.Fatalf("expected @flow function to keep unwrap, got %#v", g["traced"])
	}
	if edgeTo(g["plain"], "unwrap", "") {
		t.Fatalf("expected unwrap to be filtered in plain, got %#v", g["plain"])
	}
}

func TestRustClosureNamedFromBinding(t *testing.T) {
	g := NewRustParser().Parse([]byte(`fn outer() {
    let step = |x: u8| advance(x);
}
`))

	if !edgeTo(g["step"], "advance", "") {
		t.Fatalf("expected closure step -> advance, got %#v", g)
	}
}

func TestSyntaxErrorsYieldEmptyGraph(t *testing.T) {
	cases := []struct {
		name   string
		parse  func([]byte, bool) (flow.Graph, flow.LineMap)
		source string
	}{
		{"rust", NewRustParser().ParseWithLines, "fn main( {"},
		{"python", NewPythonParser().ParseWithLines, "def broken(:\n    pass\n"},
		{"typescript", NewTypeScriptParser().ParseWithLines, "function f( {"},
	}

	for _, tc := range cases {
		g, lines := tc.parse([]byte(tc.source), false)
		if len(g) != 0 || len(lines) != 0 {
			t.Fatalf("%s: expected empty results for invalid source, got %v %v", tc.name, g, lines)
		}
	}
}

func TestPythonFunctionWithoutCalls(t *testing.T) {
	g, lines := NewPythonParser().ParseWithLines([]byte(`def idle():
    pass

def caller():
    idle()
`), false)

	edges, ok := g["idle"]
	if !ok || len(edges) != 0 {
		t.Fatalf("expected idle with no edges, got %#v (present=%v)", edges, ok)
	}
	if !edgeTo(g["caller"], "idle", "") {
		t.Fatalf("expected caller -> idle, got %#v", g["caller"])
	}
	if lines["caller"] != 4 {
		t.Fatalf("expected caller on line 4, got %d", lines["caller"])
	}
}

func TestPythonSuppressDecisions(t *testing.T) {
	g := NewPythonParser().Parse([]byte(`def main():
    if ready():
        go()
`))
	if g.DecisionCount() != 1 {
		t.Fatalf("expected one decision node, got %q", g.Keys())
	}

	flat, _ := NewPythonParser().ParseWithLines([]byte(`def main():
    if ready():
        go()
`), true)
	if flat.DecisionCount() != 0 {
		t.Fatalf("expected flat graph, got %q", flat.Keys())
	}
	if !edgeTo(flat["main"], "ready", "") || !edgeTo(flat["main"], "go", "") {
		t.Fatalf("expected direct edges, got %#v", flat["main"])
	}
}

func TestTypeScriptSwitchArrowAndMethods(t *testing.T) {
	g := NewTypeScriptParser().Parse([]byte(`function route(kind: number) {
  switch (kind) {
    case 1:
      one();
      break;
    default:
      other();
  }
}

const handler = () => {
  route(1);
};

class Service {
  run() {
    this.process();
  }
  process() {}
}
`))

	id := decisionByDisplay(t, g, "switch (kind)")
	if !edgeTo(g[id], "one", "1") || !edgeTo(g[id], "other", "default") {
		t.Fatalf("expected case/default labels, got %#v", g[id])
	}
	if !edgeTo(g["handler"], "route", "") {
		t.Fatalf("expected arrow function named handler, got %#v", g)
	}
	if !edgeTo(g["run"], "process", "") {
		t.Fatalf("expected run -> process, got %#v", g["run"])
	}
	if _, ok := g["process"]; !ok {
		t.Fatalf("expected process key, got %q", g.Keys())
	}
}

func TestTypeScriptIfElse(t *testing.T) {
	g := NewTSXParser().Parse([]byte(`function render(ok: boolean) {
  if (ok) {
    draw();
  } else {
    skip();
  }
}
`))

	id := decisionByDisplay(t, g, "if (ok)")
	if !edgeTo(g[id], "draw", "True") || !edgeTo(g[id], "skip", "False") {
		t.Fatalf("expected True/False edges, got %#v", g[id])
	}
}

func TestJavaScriptFiltersConsole(t *testing.T) {
	g := NewJavaScriptParser().Parse([]byte(`function main() {
  helper();
  console.log("x");
}
`))

	if !edgeTo(g["main"], "helper", "") {
		t.Fatalf("expected main -> helper, got %#v", g["main"])
	}
	if edgeTo(g["main"], "log", "") {
		t.Fatalf("expected console.log to be filtered, got %#v", g["main"])
	}
}

func TestDefaultRegistryDispatch(t *testing.T) {
	r := NewDefaultRegistry()

	cases := map[string]string{
		"src/lib.RS":     "rust",
		"tool.pyw":       "python",
		"app/main.ts":    "typescript",
		"ui/button.tsx":  "tsx",
		"server.cjs":     "javascript",
		"web/widget.jsx": "javascript",
	}
	for file, want := range cases {
		p, ok := r.GetParserForFile(file)
		if !ok {
			t.Fatalf("expected parser for %s", file)
		}
		if p.Language() != want {
			t.Fatalf("%s: expected %s, got %s", file, want, p.Language())
		}
	}
	if _, ok := r.GetParserForFile("README.md"); ok {
		t.Fatalf("expected no parser for markdown")
	}
}
