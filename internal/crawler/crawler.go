// Package crawler merges per-file flow graphs into one namespaced graph for a
// directory tree.
package crawler

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/glyph-dev/glyph/internal/fileutil"
	"github.com/glyph-dev/glyph/internal/flow"
	"github.com/glyph-dev/glyph/internal/languages"
	"github.com/glyph-dev/glyph/internal/parser"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Request describes one crawl.
type Request struct {
	Root              string
	SuppressDecisions bool
	// Ignore holds extra gitignore-style rules applied after the built-in
	// test and vendor exclusions.
	Ignore []string
}

// FileSummary describes one parsed file.
type FileSummary struct {
	Path      string `json:"path"`
	Language  string `json:"language"`
	Functions int    `json:"functions"`
	Decisions int    `json:"decisions"`
	Hash      string `json:"hash"`
}

// Result is the outcome of a crawl. Graph and Sources are never nil.
type Result struct {
	Root     string              `json:"root"`
	Graph    flow.Graph          `json:"graph"`
	Sources  flow.SourceMap      `json:"sources"`
	Files    []FileSummary       `json:"files"`
	Issues   []parser.ParseIssue `json:"issues,omitempty"`
	Duration time.Duration       `json:"duration_ns"`

	requested string
	found     bool
}

// Status is the advisory message shown to the user.
func (r *Result) Status() string {
	switch {
	case !r.found:
		return "path not found: " + r.requested
	case len(r.Graph) == 0:
		return "no functions found in " + r.Root
	default:
		return fmt.Sprintf("crawled %d nodes, %d edges from %s", len(r.Graph), r.Graph.EdgeCount(), r.Root)
	}
}

// Found reports whether the root resolved to a directory.
func (r *Result) Found() bool {
	return r.found
}

// Crawler runs crawls against a parser registry.
type Crawler struct {
	registry *parser.Registry
}

// parseCacheSize bounds the number of parsed files kept between crawls.
const parseCacheSize = 4096

// New creates a crawler. A nil registry means every built-in language.
// Repeated crawls reuse the parse of files whose content is unchanged.
func New(registry *parser.Registry) *Crawler {
	if registry == nil {
		registry = languages.NewDefaultRegistry()
	}
	if cache, err := lru.New[string, *parser.FileGraph](parseCacheSize); err == nil {
		registry.SetCache(cache)
	}
	return &Crawler{registry: registry}
}

// Registry exposes the parser registry, e.g. for watcher extension filters.
func (c *Crawler) Registry() *parser.Registry {
	return c.registry
}

var (
	defaultOnce    sync.Once
	defaultCrawler *Crawler
)

// Crawl crawls root with the default registry. Invalid roots yield an empty
// graph and source map.
func Crawl(root string, suppressDecisions bool) (flow.Graph, flow.SourceMap) {
	defaultOnce.Do(func() {
		defaultCrawler = New(nil)
	})
	res := defaultCrawler.Run(Request{Root: root, SuppressDecisions: suppressDecisions})
	return res.Graph, res.Sources
}

// Run performs a full crawl. It never fails; problems are reported through
// Issues and Status.
func (c *Crawler) Run(req Request) *Result {
	start := time.Now()
	res := &Result{
		Root:      req.Root,
		Graph:     flow.Graph{},
		Sources:   flow.SourceMap{},
		Files:     make([]FileSummary, 0),
		requested: req.Root,
	}

	root, ok := resolveRoot(req.Root)
	if !ok {
		slog.Warn("crawl.path_not_found", "root", req.Root)
		res.Duration = time.Since(start)
		return res
	}
	res.Root = root
	res.found = true

	parsed, err := c.registry.ParseDirectory(root, req.Ignore, req.SuppressDecisions)
	if err != nil {
		parsed.Issues = append(parsed.Issues, parser.ParseIssue{
			File:     ".",
			Severity: "error",
			Message:  fmt.Sprintf("walk aborted: %v", err),
		})
	}
	res.Issues = parsed.Issues

	index := buildIndex(parsed.Files)
	for i := range parsed.Files {
		file := &parsed.Files[i]
		mergeFile(res.Graph, res.Sources, file, index)
		res.Files = append(res.Files, FileSummary{
			Path:      file.Path,
			Language:  file.Language,
			Functions: file.Functions(),
			Decisions: file.Graph.DecisionCount(),
			Hash:      file.Hash,
		})
	}

	dropUnresolved(res.Graph)
	pruneDecisions(res.Graph)

	res.Duration = time.Since(start)
	slog.Info("crawl.done",
		"root", root,
		"files", len(res.Files),
		"nodes", len(res.Graph),
		"edges", res.Graph.EdgeCount(),
		"issues", len(res.Issues),
		"duration", res.Duration,
	)
	return res
}

func resolveRoot(root string) (string, bool) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", false
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return abs, true
}

// buildIndex maps every declared (non-decision) name to the sorted relative
// paths that declare it.
func buildIndex(files []parser.FileGraph) map[string][]string {
	index := make(map[string][]string)
	for _, file := range files {
		for id := range file.Graph {
			if flow.IsDecision(id) {
				continue
			}
			index[id] = append(index[id], file.Path)
		}
	}
	for name, paths := range index {
		index[name] = fileutil.SortedUnique(paths)
	}
	return index
}

// mergeFile namespaces one file's graph into g. Decision targets stay in
// the file; call targets fan out to every declaring file and are dropped
// when nothing declares them.
func mergeFile(g flow.Graph, sources flow.SourceMap, file *parser.FileGraph, index map[string][]string) {
	for _, id := range file.Graph.Keys() {
		key := flow.Namespace(file.Path, id)
		g.Ensure(key)

		seen := make(map[flow.Edge]bool, len(g[key]))
		for _, e := range g[key] {
			seen[e] = true
		}
		for _, e := range file.Graph[id] {
			for _, target := range resolveTargets(file.Path, e.Target, index) {
				out := flow.Edge{Target: target, Label: e.Label}
				if seen[out] {
					continue
				}
				seen[out] = true
				g[key] = append(g[key], out)
			}
		}
	}

	for name, line := range file.Lines {
		if flow.IsDecision(name) {
			continue
		}
		if _, ok := file.Graph[name]; !ok {
			continue
		}
		sources[flow.Namespace(file.Path, name)] = flow.Location{Path: file.AbsPath, Line: line}
	}
}

func resolveTargets(rel, target string, index map[string][]string) []string {
	if flow.IsDecision(target) {
		return []string{flow.Namespace(rel, target)}
	}
	paths := index[target]
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		out = append(out, flow.Namespace(path, target))
	}
	return out
}

// dropUnresolved removes call edges whose target is not a key.
func dropUnresolved(g flow.Graph) {
	for id, edges := range g {
		kept := edges[:0]
		for _, e := range edges {
			if flow.IsDecision(e.Target) {
				kept = append(kept, e)
				continue
			}
			if _, ok := g[e.Target]; ok {
				kept = append(kept, e)
			}
		}
		g[id] = kept
	}
}

// pruneDecisions removes decision nodes without edges, then edges that point
// at removed or missing decisions, until nothing changes.
func pruneDecisions(g flow.Graph) {
	for pass := 0; pass <= len(g); pass++ {
		changed := false

		for id, edges := range g {
			if flow.IsDecision(id) && len(edges) == 0 {
				delete(g, id)
				changed = true
			}
		}

		for id, edges := range g {
			kept := edges[:0]
			for _, e := range edges {
				if flow.IsDecision(e.Target) {
					if _, ok := g[e.Target]; !ok {
						changed = true
						continue
					}
				}
				kept = append(kept, e)
			}
			g[id] = kept
		}

		if !changed {
			return
		}
	}
}
