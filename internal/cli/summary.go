package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/glyph-dev/glyph/internal/crawler"
	"github.com/glyph-dev/glyph/internal/parser"
)

func ReportParseIssues(w io.Writer, issues []parser.ParseIssue) {
	for _, issue := range issues {
		if issue.Language != "" {
			fmt.Fprintf(w, "[%s] %s (%s): %s\n", issue.Severity, issue.File, issue.Language, issue.Message)
			continue
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", issue.Severity, issue.File, issue.Message)
	}
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}

// ChangedFiles lists files added, removed or rewritten between two crawls.
func ChangedFiles(before, after []crawler.FileSummary) []string {
	prev := make(map[string]string, len(before))
	for _, f := range before {
		prev[f.Path] = f.Hash
	}

	changed := make([]string, 0)
	for _, f := range after {
		hash, ok := prev[f.Path]
		if !ok || hash != f.Hash {
			changed = append(changed, f.Path)
		}
		delete(prev, f.Path)
	}
	for path := range prev {
		changed = append(changed, path)
	}
	sort.Strings(changed)
	return changed
}
