package languages

import (
	"context"
	"log/slog"
	"sync"

	"github.com/glyph-dev/glyph/internal/flow"
	"github.com/glyph-dev/glyph/internal/walker"
	sitter "github.com/smacker/go-tree-sitter"
)

// frontEnd binds one tree-sitter grammar to a walker config. The underlying
// parser is not safe for concurrent use, so calls are serialized.
type frontEnd struct {
	name   string
	exts   []string
	cfg    *walker.Config
	mu     sync.Mutex
	parser *sitter.Parser
}

func newFrontEnd(name string, exts []string, lang *sitter.Language, cfg *walker.Config) *frontEnd {
	p := sitter.NewParser()
	p.SetLanguage(lang)

	return &frontEnd{
		name:   name,
		exts:   exts,
		cfg:    cfg,
		parser: p,
	}
}

func (f *frontEnd) Language() string {
	return f.name
}

func (f *frontEnd) Extensions() []string {
	out := make([]string, len(f.exts))
	copy(out, f.exts)
	return out
}

func (f *frontEnd) Parse(source []byte) flow.Graph {
	g, _ := f.ParseWithLines(source, false)
	return g
}

func (f *frontEnd) ParseWithLines(source []byte, suppressDecisions bool) (flow.Graph, flow.LineMap) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tree, err := f.parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		slog.Debug("parse.failed", "lang", f.name, "err", err)
		return flow.Graph{}, flow.LineMap{}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		slog.Debug("parse.syntax_error", "lang", f.name)
		return flow.Graph{}, flow.LineMap{}
	}

	return walker.Walk(f.cfg, root, source, suppressDecisions)
}
