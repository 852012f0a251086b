package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glyph-dev/glyph/internal/crawler"
	"github.com/glyph-dev/glyph/internal/flow"
	"github.com/glyph-dev/glyph/internal/graph"
)

func crawlFixture(t *testing.T) *crawler.Result {
	t.Helper()
	root := t.TempDir()
	src := `def main():
    if ok:
        save()
    audit()

def save():
    pass

def audit():
    pass
`
	if err := os.WriteFile(filepath.Join(root, "app.py"), []byte(src), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return crawler.New(nil).Run(crawler.Request{Root: root})
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, " jsonl ": FormatJSONL} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatalf("expected error for yaml")
	}
}

func TestBuildReportOrdersByDepth(t *testing.T) {
	rep := BuildReport(crawlFixture(t), 3)

	if len(rep.Nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(rep.Nodes))
	}
	if rep.Nodes[0].ID != "app.py::main" || rep.Nodes[0].Depth != 0 {
		t.Fatalf("expected main first at depth 0, got %+v", rep.Nodes[0])
	}
	if rep.Nodes[0].Line != 1 || rep.Nodes[0].File != "app.py" {
		t.Fatalf("expected main location app.py:1, got %+v", rep.Nodes[0])
	}
	for i := 1; i < len(rep.Nodes); i++ {
		if rep.Nodes[i].Depth < rep.Nodes[i-1].Depth {
			t.Fatalf("nodes not ordered by depth: %+v", rep.Nodes)
		}
	}
	if rep.Digest == "" || rep.Summary.Decisions != 1 {
		t.Fatalf("expected digest and one decision, got %+v", rep.Summary)
	}
}

func TestWriteReportFormats(t *testing.T) {
	rep := BuildReport(crawlFixture(t), 0)

	var text bytes.Buffer
	if err := WriteReport(&text, FormatText, rep); err != nil {
		t.Fatalf("text: %v", err)
	}
	out := text.String()
	if !strings.HasPrefix(out, "crawled 4 nodes") {
		t.Fatalf("expected status line first, got %q", out)
	}
	if !strings.Contains(out, "-> app.py::save [True]") || !strings.Contains(out, "app.py::<if ok>#1") {
		t.Fatalf("expected labelled decision edge in text output, got:\n%s", out)
	}

	var js bytes.Buffer
	if err := WriteReport(&js, FormatJSON, rep); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(decoded.Nodes) != 4 {
		t.Fatalf("expected 4 nodes in json, got %d", len(decoded.Nodes))
	}

	var jsonl bytes.Buffer
	if err := WriteReport(&jsonl, FormatJSONL, rep); err != nil {
		t.Fatalf("jsonl: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(jsonl.String()), "\n")
	if len(lines) != len(rep.Edges()) {
		t.Fatalf("expected one line per edge, got %d lines for %d edges", len(lines), len(rep.Edges()))
	}
}

func TestWriteLevelsText(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLevels(&buf, FormatText, map[string]int{"a": 0, "b": 1, "c": 1})
	if err != nil {
		t.Fatalf("WriteLevels failed: %v", err)
	}
	if buf.String() != "0: a\n1: b, c\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWriteTraceText(t *testing.T) {
	g := flow.Graph{"a.py::a": {{Target: "a.py::b"}}, "a.py::b": {}}

	var buf bytes.Buffer
	if err := WriteTrace(&buf, FormatText, graph.Trace(g, "a", "b")); err != nil {
		t.Fatalf("WriteTrace failed: %v", err)
	}
	want := "Trace: Path found and highlighted\n  a.py::a -> a.py::b\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}
