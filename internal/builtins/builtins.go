// Package builtins holds per-language tables of standard library and common
// method names that are kept out of the flow graph.
package builtins

// Set is a static name table.
type Set map[string]struct{}

// Contains reports whether name is in the table.
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

func newSet(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

// Python built-ins and common stdlib callables.
var Python = newSet(
	"len", "print", "str", "int", "float", "bool", "list", "dict", "set", "tuple",
	"range", "map", "filter", "zip", "enumerate", "reversed", "sorted", "sum", "min", "max",
	"abs", "round", "open", "input", "type", "isinstance", "hasattr", "getattr", "setattr",
	"repr", "format", "iter", "next", "all", "any", "callable", "chr", "ord", "divmod",
	"hash", "id", "issubclass", "locals", "globals", "vars", "dir",
	"super", "property", "staticmethod", "classmethod", "object", "Exception", "BaseException",
	"slice", "frozenset", "bytes", "bytearray", "memoryview", "complex", "pow",
	"exit", "quit", "help", "license", "copyright", "credits",
	"append", "extend", "update", "items", "keys", "values", "join", "split", "strip",
)

// Rust std methods plus the ECS calls that dominate game-style code bases.
var Rust = newSet(
	"as_mut", "as_ref", "unwrap", "expect", "unwrap_or", "unwrap_or_else", "unwrap_or_default",
	"ok", "err", "clone", "copy", "len", "is_empty", "iter", "into_iter",
	"get", "get_mut", "insert", "remove", "contains", "push", "pop",
	"to_string", "to_owned", "borrow", "borrow_mut", "deref", "deref_mut",
	"default", "new", "from", "into", "try_into", "try_from",
	"eq", "ne", "lt", "le", "gt", "ge", "cmp", "partial_cmp",
	"hash", "fmt", "debug", "display", "send", "sync",
	"map", "map_err", "and_then", "or_else", "collect", "filter", "filter_map",
	"Some", "None", "Ok", "Err", "Box", "Vec",
	"spawn", "despawn", "entity", "single", "single_mut", "iter_mut",
	"add_systems", "add_plugins", "add_system", "run_if", "in_state",
	"insert_resource", "init_resource", "add_message", "write_message",
	"add_child", "remove_children", "with_children",
)

// TypeScript also serves JavaScript, TSX and JSX sources.
var TypeScript = newSet(
	"log", "warn", "error", "info", "debug", "trace",
	"parseInt", "parseFloat", "isNaN", "isFinite", "eval",
	"map", "filter", "reduce", "find", "findIndex", "forEach", "some", "every",
	"push", "pop", "shift", "unshift", "splice", "slice",
	"concat", "join", "reverse", "sort", "includes", "indexOf",
	"length", "toString", "valueOf", "hasOwnProperty", "isPrototypeOf",
	"keys", "values", "entries", "assign", "freeze", "seal",
	"parse", "stringify", "then", "catch", "finally", "resolve", "reject",
	"Array", "Object", "String", "Number", "Boolean", "Math", "JSON", "Promise",
	"console", "setTimeout", "setInterval", "clearTimeout", "clearInterval",
	"require",
)
