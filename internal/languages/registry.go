package languages

import "github.com/glyph-dev/glyph/internal/parser"

// NewDefaultRegistry creates a registry with all supported language parsers
func NewDefaultRegistry() *parser.Registry {
	r := parser.NewRegistry()

	r.Register(NewRustParser())
	r.Register(NewPythonParser())
	r.Register(NewTypeScriptParser())
	r.Register(NewTSXParser())
	r.Register(NewJavaScriptParser())

	return r
}
