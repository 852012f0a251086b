package languages

import (
	"github.com/glyph-dev/glyph/internal/builtins"
	"github.com/glyph-dev/glyph/internal/walker"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScriptParser implements parsing for TypeScript/JavaScript source
// files. The three grammars share node kinds, so they share one config.
type TypeScriptParser struct {
	*frontEnd
}

// NewTypeScriptParser handles .ts, .mts and .cts sources
func NewTypeScriptParser() *TypeScriptParser {
	return &TypeScriptParser{newFrontEnd("typescript", []string{".ts", ".mts", ".cts"}, typescript.GetLanguage(), typeScriptConfig())}
}

// NewTSXParser handles .tsx sources
func NewTSXParser() *TypeScriptParser {
	return &TypeScriptParser{newFrontEnd("tsx", []string{".tsx"}, tsx.GetLanguage(), typeScriptConfig())}
}

// NewJavaScriptParser handles .js, .jsx, .mjs and .cjs sources
func NewJavaScriptParser() *TypeScriptParser {
	return &TypeScriptParser{newFrontEnd("javascript", []string{".js", ".jsx", ".mjs", ".cjs"}, javascript.GetLanguage(), typeScriptConfig())}
}

func typeScriptConfig() *walker.Config {
	return &walker.Config{
		FunctionKinds:     []string{"function_declaration", "generator_function_declaration", "method_definition"},
		FunctionNameField: "name",

		AnonFunctionKinds:   []string{"arrow_function", "function_expression", "function"},
		AnonParentKinds:     []string{"variable_declarator", "public_field_definition"},
		AnonParentNameField: "name",

		CallKind:           "call_expression",
		CallFunctionField:  "function",
		MethodReceiverKind: "member_expression",
		MethodNameField:    "property",

		IfKind:           "if_statement",
		IfConditionField: "condition",
		IfThenField:      "consequence",
		IfElseField:      "alternative",

		ForKinds:            []string{"for_statement", "for_in_statement"},
		WhileKinds:          []string{"while_statement", "do_statement"},
		LoopBodyField:       "body",
		WhileConditionField: "condition",

		MatchKind:         "switch_statement",
		MatchKeyword:      "switch",
		MatchValueField:   "value",
		MatchBodyField:    "body",
		MatchArmKinds:     []string{"switch_case", "switch_default"},
		MatchPatternField: "value",
		MatchDefaultLabel: "default",

		Builtins:    builtins.TypeScript,
		CommentKind: "comment",
	}
}
