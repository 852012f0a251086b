package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/glyph-dev/glyph/internal/fileutil"
	"github.com/glyph-dev/glyph/internal/flow"
	"github.com/glyph-dev/glyph/internal/graph"
)

// WriteReport renders a crawl report in the given format.
func WriteReport(w io.Writer, format Format, rep *Report) error {
	switch format {
	case FormatJSON:
		return fileutil.WriteJSON(w, rep)
	case FormatJSONL:
		data, err := fileutil.EncodeJSONL(rep.Edges())
		if err != nil {
			return fmt.Errorf("encode edges: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := io.WriteString(w, RenderText(rep))
		return err
	}
}

// RenderText lays nodes out per hierarchy level:
//
//	[0]
//	  app.py::main  app.py:1
//	    -> app.py::save [True]
func RenderText(rep *Report) string {
	var b strings.Builder
	fmt.Fprintln(&b, rep.Status)
	if len(rep.Nodes) == 0 {
		return b.String()
	}

	s := rep.Summary
	fmt.Fprintf(&b, "files=%d functions=%d decisions=%d edges=%d depth=%d\n", s.Files, s.Functions, s.Decisions, s.Edges, s.Depth)

	depth := -1
	for _, node := range rep.Nodes {
		if node.Depth != depth {
			depth = node.Depth
			fmt.Fprintf(&b, "[%d]\n", depth)
		}
		fmt.Fprintf(&b, "  %s", DisplayID(node.ID))
		if node.Line > 0 {
			fmt.Fprintf(&b, "  %s:%d", node.File, node.Line)
		}
		b.WriteString("\n")
		for _, e := range node.Edges {
			fmt.Fprintf(&b, "    -> %s", DisplayID(e.Target))
			if e.Label != "" {
				fmt.Fprintf(&b, " [%s]", e.Label)
			}
			b.WriteString("\n")
		}
	}

	if len(s.Top) > 0 {
		names := make([]string, 0, len(s.Top))
		for _, n := range s.Top {
			names = append(names, DisplayID(n.ID))
		}
		fmt.Fprintf(&b, "hot: %s\n", strings.Join(names, ", "))
	}
	for _, issue := range rep.Issues {
		fmt.Fprintf(&b, "[%s] %s: %s\n", issue.Severity, issue.File, issue.Message)
	}
	return fileutil.EnsureTrailingNewline(b.String())
}

// WriteLevels renders a levelling as text or JSON.
func WriteLevels(w io.Writer, format Format, levels map[string]int) error {
	if format != FormatText {
		return fileutil.WriteJSON(w, levels)
	}
	for depth, layer := range graph.Layers(levels) {
		display := make([]string, 0, len(layer))
		for _, id := range layer {
			display = append(display, DisplayID(id))
		}
		if _, err := fmt.Fprintf(w, "%d: %s\n", depth, strings.Join(display, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// WriteTrace renders a trace result.
func WriteTrace(w io.Writer, format Format, res *graph.TraceResult) error {
	switch format {
	case FormatJSON:
		return fileutil.WriteJSON(w, res)
	case FormatJSONL:
		records := make([]EdgeRecord, 0, len(res.Edges))
		for _, e := range res.Edges {
			records = append(records, EdgeRecord{From: e.From, To: e.To, Label: e.Label})
		}
		data, err := fileutil.EncodeJSONL(records)
		if err != nil {
			return fmt.Errorf("encode trace: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	var b strings.Builder
	fmt.Fprintln(&b, res.Status)
	for _, e := range res.Edges {
		fmt.Fprintf(&b, "  %s -> %s", DisplayID(e.From), DisplayID(e.To))
		if e.Label != "" {
			fmt.Fprintf(&b, " [%s]", e.Label)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// DisplayID swaps the decision separator for a readable form:
// "a.py::_decision_2\x1fif ok" becomes "a.py::<if ok>#2".
func DisplayID(id string) string {
	if !flow.IsDecision(id) {
		return id
	}
	file, bare := flow.SplitNamespaced(id)
	counter := strings.TrimPrefix(bare[:strings.Index(bare, flow.DecisionSep)], flow.DecisionPrefix)
	text := "<" + flow.DisplayText(id) + ">#" + counter
	if file == "" {
		return text
	}
	return flow.Namespace(file, text)
}
