package parser

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glyph-dev/glyph/internal/fileutil"
	"github.com/glyph-dev/glyph/internal/flow"
	"github.com/glyph-dev/glyph/internal/ignore"
)

// LanguageParser defines the interface each language must implement
type LanguageParser interface {
	// Language returns the language name (e.g., "rust", "python")
	Language() string

	// Extensions returns file extensions this parser handles
	Extensions() []string

	// Parse builds the flow graph of one source file.
	Parse(source []byte) flow.Graph

	// ParseWithLines also returns declaration lines. Malformed input yields
	// empty results, never an error.
	ParseWithLines(source []byte, suppressDecisions bool) (flow.Graph, flow.LineMap)
}

// FileCache keeps parsed files keyed by language, mode and content hash.
// *lru.Cache[string, *FileGraph] satisfies it.
type FileCache interface {
	Get(key string) (*FileGraph, bool)
	Add(key string, file *FileGraph) bool
}

// Registry holds all registered language parsers
type Registry struct {
	parsers   map[string]LanguageParser // language name -> parser
	extToLang map[string]string         // extension -> language name
	cache     FileCache
}

// NewRegistry creates a new parser registry
func NewRegistry() *Registry {
	return &Registry{
		parsers:   make(map[string]LanguageParser),
		extToLang: make(map[string]string),
	}
}

// Register adds a language parser to the registry
func (r *Registry) Register(p LanguageParser) {
	lang := p.Language()
	r.parsers[lang] = p
	for _, ext := range p.Extensions() {
		r.extToLang[strings.ToLower(ext)] = lang
	}
}

// SetCache enables reuse of parse results for files whose content did not
// change. Cached entries must be treated as read-only.
func (r *Registry) SetCache(c FileCache) {
	r.cache = c
}

// GetParserForFile returns the appropriate parser for a file
func (r *Registry) GetParserForFile(filename string) (LanguageParser, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	lang, ok := r.extToLang[ext]
	if !ok {
		return nil, false
	}
	parser, ok := r.parsers[lang]
	return parser, ok
}

// SupportedExtensions returns all supported file extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.extToLang))
	for ext := range r.extToLang {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.parsers))
	for lang := range r.parsers {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// ParseFile parses a single file into its un-namespaced flow graph.
func (r *Registry) ParseFile(path string, suppressDecisions bool) (*FileGraph, error) {
	parser, ok := r.GetParserForFile(path)
	if !ok {
		return nil, nil // unsupported file type, skip silently
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	hash := fileutil.HashContent(content)
	key := cacheKey(parser.Language(), suppressDecisions, hash)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			file := *cached
			file.AbsPath = path
			return &file, nil
		}
	}

	g, lines := parser.ParseWithLines(content, suppressDecisions)
	file := &FileGraph{
		AbsPath:  path,
		Language: parser.Language(),
		Graph:    g,
		Lines:    lines,
		Hash:     hash,
	}
	if r.cache != nil {
		stored := *file
		r.cache.Add(key, &stored)
	}
	return file, nil
}

func cacheKey(lang string, suppressDecisions bool, hash string) string {
	mode := "flow"
	if suppressDecisions {
		mode = "flat"
	}
	return lang + ":" + mode + ":" + hash
}

// ParseDirectory recursively parses all supported files under root in
// lexical order. Symlinks are not followed.
func (r *Registry) ParseDirectory(root string, ignorePaths []string, suppressDecisions bool) (*ParseResult, error) {
	ignoreMatcher := ignore.NewMatcher(ignorePaths)

	result := &ParseResult{
		RootPath: root,
		Files:    make([]FileGraph, 0),
		Issues:   make([]ParseIssue, 0),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		relPath := path
		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			relPath = filepath.ToSlash(rel)
		}

		if err != nil {
			result.Issues = append(result.Issues, ParseIssue{
				File:     relPath,
				Severity: "warning",
				Message:  fmt.Sprintf("walk error: %v", err),
			})
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		// Skip directories and ignored paths
		if ignoreMatcher.ShouldIgnore(relPath, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		file, err := r.ParseFile(path, suppressDecisions)
		if err != nil {
			lang := ""
			if langParser, ok := r.GetParserForFile(path); ok {
				lang = langParser.Language()
			}
			slog.Warn("crawl.read_failed", "file", relPath, "err", err)
			result.Issues = append(result.Issues, ParseIssue{
				File:     relPath,
				Language: lang,
				Severity: "error",
				Message:  err.Error(),
			})
			return nil
		}
		if file != nil {
			file.Path = relPath
			slog.Debug("crawl.file", "file", relPath, "lang", file.Language, "nodes", len(file.Graph))
			result.Files = append(result.Files, *file)
		}

		return nil
	})

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	sort.Slice(result.Issues, func(i, j int) bool {
		if result.Issues[i].File == result.Issues[j].File {
			return result.Issues[i].Message < result.Issues[j].Message
		}
		return result.Issues[i].File < result.Issues[j].File
	})

	return result, err
}
