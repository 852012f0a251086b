package languages

import (
	"github.com/glyph-dev/glyph/internal/builtins"
	"github.com/glyph-dev/glyph/internal/walker"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonParser extracts flow graphs from Python sources
type PythonParser struct {
	*frontEnd
}

// NewPythonParser creates a new Python parser
func NewPythonParser() *PythonParser {
	return &PythonParser{newFrontEnd("python", []string{".py", ".pyw"}, python.GetLanguage(), pythonConfig())}
}

// Python has no multi-way branch configured; match statements are walked
// transparently.
func pythonConfig() *walker.Config {
	return &walker.Config{
		FunctionKinds:     []string{"function_definition"},
		FunctionNameField: "name",

		AnonFunctionKinds:   []string{"lambda"},
		AnonParentKinds:     []string{"assignment"},
		AnonParentNameField: "left",

		CallKind:           "call",
		CallFunctionField:  "function",
		MethodReceiverKind: "attribute",
		MethodNameField:    "attribute",

		IfKind:           "if_statement",
		IfConditionField: "condition",
		IfThenField:      "consequence",

		ElifClauseKind:     "elif_clause",
		ElifConditionField: "condition",
		ElifBodyField:      "consequence",
		ElseClauseKind:     "else_clause",
		ElseBodyField:      "body",

		ForKinds:            []string{"for_statement"},
		WhileKinds:          []string{"while_statement"},
		LoopBodyField:       "body",
		WhileConditionField: "condition",

		Builtins:    builtins.Python,
		CommentKind: "comment",
	}
}
