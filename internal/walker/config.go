package walker

import "github.com/glyph-dev/glyph/internal/builtins"

// Config maps one grammar's node kinds and field names onto the walker's
// vocabulary. Empty strings and nil slices disable the matching construct.
type Config struct {
	// Named function definitions.
	FunctionKinds     []string
	FunctionNameField string

	// Anonymous functions take their name from a parent binding.
	AnonFunctionKinds   []string
	AnonParentKinds     []string
	AnonParentNameField string

	// Calls. A callee of MethodReceiverKind contributes MethodNameField, a
	// callee of PathCallKind contributes PathNameField.
	CallKind           string
	CallFunctionField  string
	MethodReceiverKind string
	MethodNameField    string
	PathCallKind       string
	PathNameField      string

	// if / else, field based.
	IfKind           string
	IfConditionField string
	IfThenField      string
	IfElseField      string

	// elif / else, child-node based.
	ElifClauseKind     string
	ElifConditionField string
	ElifBodyField      string
	ElseClauseKind     string
	ElseBodyField      string

	// Loops. Only while loops carry a condition snippet; LoopKinds are
	// unconditional loops displayed as "loop".
	ForKinds            []string
	WhileKinds          []string
	LoopKinds           []string
	LoopBodyField       string
	WhileConditionField string

	// Multi-way branches. Each arm is labelled with the text of its
	// MatchPatternField child, or MatchDefaultLabel when it has none.
	MatchKind         string
	MatchKeyword      string
	MatchValueField   string
	MatchBodyField    string
	MatchArmKinds     []string
	MatchPatternField string
	MatchDefaultLabel string

	// Test scopes whose whole subtree is skipped.
	TestScopeKind      string
	TestScopeNameField string
	TestScopeNames     []string

	Builtins builtins.Set

	// CommentKind enables the @flow force-include marker.
	CommentKind string
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func (c *Config) isFunction(kind string) bool {
	return contains(c.FunctionKinds, kind)
}

func (c *Config) isAnonFunction(kind string) bool {
	return contains(c.AnonFunctionKinds, kind)
}

func (c *Config) isLoop(kind string) bool {
	return contains(c.ForKinds, kind) || contains(c.WhileKinds, kind) || contains(c.LoopKinds, kind)
}

func (c *Config) isMatchArm(kind string) bool {
	return contains(c.MatchArmKinds, kind)
}

func (c *Config) isBuiltin(name string) bool {
	return c.Builtins != nil && c.Builtins.Contains(name)
}
