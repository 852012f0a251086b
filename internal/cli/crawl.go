package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/glyph-dev/glyph/internal/crawler"
	"github.com/glyph-dev/glyph/internal/fileutil"
	"github.com/glyph-dev/glyph/internal/graph"
	"github.com/glyph-dev/glyph/internal/output"
	"github.com/glyph-dev/glyph/internal/search"
	"github.com/spf13/cobra"
)

func runCrawl(cmd *cobra.Command, rootPath string) (*crawler.Result, error) {
	s, err := loadSettings(cmd, rootPath)
	if err != nil {
		return nil, err
	}
	res := crawler.New(nil).Run(s.request())
	ReportParseIssues(cmd.ErrOrStderr(), res.Issues)
	return res, nil
}

func RunCrawl(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveRootArg(args)
	if err != nil {
		return err
	}
	format, err := ParseOutputFormat(cmd)
	if err != nil {
		return err
	}
	top, err := OptionalIntFlag(cmd, "top", 5)
	if err != nil {
		return err
	}
	outPath, err := OptionalStringFlag(cmd, "out")
	if err != nil {
		return err
	}

	res, err := runCrawl(cmd, rootPath)
	if err != nil {
		return err
	}
	rep := output.BuildReport(res, top)

	if outPath == "" {
		return output.WriteReport(cmd.OutOrStdout(), format, rep)
	}
	var buf bytes.Buffer
	if err := output.WriteReport(&buf, format, rep); err != nil {
		return err
	}
	written, err := fileutil.WriteIfChangedTracked(outPath, buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	state := "unchanged"
	if written {
		state = "written"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\noutput: %s (%s, %s)\n", rep.Status, outPath, format, state)
	return nil
}

func RunLevels(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveRootArg(args)
	if err != nil {
		return err
	}
	format, err := ParseOutputFormat(cmd)
	if err != nil {
		return err
	}
	res, err := runCrawl(cmd, rootPath)
	if err != nil {
		return err
	}
	levels := graph.Levels(res.Graph, graph.AllIDs(res.Graph))
	return output.WriteLevels(cmd.OutOrStdout(), format, levels)
}

func RunTrace(cmd *cobra.Command, args []string) error {
	root, err := OptionalStringFlag(cmd, "root")
	if err != nil {
		return err
	}
	var rootArgs []string
	if root != "" {
		rootArgs = []string{root}
	}
	rootPath, err := resolveRootArg(rootArgs)
	if err != nil {
		return err
	}
	format, err := ParseOutputFormat(cmd)
	if err != nil {
		return err
	}
	res, err := runCrawl(cmd, rootPath)
	if err != nil {
		return err
	}

	trace := graph.Trace(res.Graph, args[0], args[1])
	if err := output.WriteTrace(cmd.OutOrStdout(), format, trace); err != nil {
		return err
	}
	if format != output.FormatText {
		return nil
	}
	if trace.Found() {
		writeShortest(cmd.OutOrStdout(), graph.ShortestPath(res.Graph, trace.Source, trace.Sink))
		return nil
	}
	if missing := UnresolvedEndpoint(trace, args[0], args[1]); missing != "" {
		if hints := search.Suggest(res.Graph, missing, 3); len(hints) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "did you mean: %s\n", strings.Join(hints, ", "))
		}
	}
	return nil
}

// UnresolvedEndpoint returns the trace query that matched no node.
func UnresolvedEndpoint(trace *graph.TraceResult, source, sink string) string {
	switch {
	case trace.Source == "":
		return source
	case trace.Sink == "":
		return sink
	default:
		return ""
	}
}

func writeShortest(w io.Writer, path []string) {
	if len(path) == 0 {
		return
	}
	hops := make([]string, 0, len(path))
	for _, id := range path {
		hops = append(hops, output.DisplayID(id))
	}
	fmt.Fprintf(w, "shortest (%d hops): %s\n", len(path)-1, strings.Join(hops, " -> "))
}
