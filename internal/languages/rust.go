package languages

import (
	"github.com/glyph-dev/glyph/internal/builtins"
	"github.com/glyph-dev/glyph/internal/walker"
	"github.com/smacker/go-tree-sitter/rust"
)

// RustParser extracts flow graphs from Rust sources. `mod tests` blocks are
// skipped.
type RustParser struct {
	*frontEnd
}

// NewRustParser creates a new Rust parser
func NewRustParser() *RustParser {
	return &RustParser{newFrontEnd("rust", []string{".rs"}, rust.GetLanguage(), rustConfig())}
}

func rustConfig() *walker.Config {
	return &walker.Config{
		FunctionKinds:     []string{"function_item"},
		FunctionNameField: "name",

		AnonFunctionKinds:   []string{"closure_expression"},
		AnonParentKinds:     []string{"let_declaration"},
		AnonParentNameField: "pattern",

		CallKind:           "call_expression",
		CallFunctionField:  "function",
		MethodReceiverKind: "field_expression",
		MethodNameField:    "field",
		PathCallKind:       "scoped_identifier",
		PathNameField:      "name",

		IfKind:           "if_expression",
		IfConditionField: "condition",
		IfThenField:      "consequence",
		IfElseField:      "alternative",

		ForKinds:            []string{"for_expression"},
		WhileKinds:          []string{"while_expression"},
		LoopKinds:           []string{"loop_expression"},
		LoopBodyField:       "body",
		WhileConditionField: "condition",

		MatchKind:         "match_expression",
		MatchKeyword:      "match",
		MatchValueField:   "value",
		MatchBodyField:    "body",
		MatchArmKinds:     []string{"match_arm"},
		MatchPatternField: "pattern",
		MatchDefaultLabel: "_",

		TestScopeKind:      "mod_item",
		TestScopeNameField: "name",
		TestScopeNames:     []string{"tests", "test"},

		Builtins:    builtins.Rust,
		CommentKind: "line_comment",
	}
}
