// Package builtin implements the Language's fixed built-in function table
// (spec.md §4.4): len, key, mod, and the reserved bar slot.
//
// Handlers receive unevaluated argument trees, not pre-evaluated values —
// key() must inspect an argument's syntax (is it an identifier? an
// array access?), which a pre-evaluated value would have already thrown
// away. This is why the table's Func signature differs from the
// teacher's CallbackFunc(...GoMixObject) (objects/builtins.go), which
// only ever sees evaluated arguments.
package builtin

import (
	"github.com/kvlang/keyva/internal/ast"
	"github.com/kvlang/keyva/internal/diag"
	"github.com/kvlang/keyva/internal/env"
	"github.com/kvlang/keyva/internal/value"
)

// Evaluator is the slice of the tree-walking evaluator a builtin needs:
// the ability to evaluate an argument subtree in a given context, to see
// the caller's current frame (for key()'s identifier lookup), and to
// report a diagnostic without aborting the whole program.
type Evaluator interface {
	Eval(node ast.Node, ctx value.Context) value.Result
	CurrentFrame() *env.Frame
	Report(d *diag.Diagnostic)
}

// Func is the signature every built-in handler implements: given the
// evaluator and the raw (unevaluated) argument nodes, produce a result.
type Func func(ev Evaluator, args []ast.Node) value.Result

// Table is the fixed name -> handler registry consulted before
// user-defined functions (spec.md §4.4).
var Table = map[string]Func{
	"len": lenFn,
	"key": keyFn,
	"mod": modFn,
	"bar": barFn,
}

// Lookup returns the handler registered under name, if any.
func Lookup(name string) (Func, bool) {
	fn, ok := Table[name]
	return fn, ok
}

// lenFn implements len(x): one argument, array -> entry count, scalar
// (number or string) -> 1, anything else -> 0. Grounded on kvstdlib_len's
// `arg->right == NULL` exactly-one-argument check and its
// RESULT_ASSOC_ARRAY/else branching.
func lenFn(ev Evaluator, args []ast.Node) value.Result {
	if len(args) != 1 {
		ev.Report(diag.Semanticf("len() requires exactly 1 argument"))
		return value.Num(0)
	}
	r := ev.Eval(args[0], value.Print)
	switch {
	case r.IsArray():
		return value.Num(float64(r.Array.Len()))
	case r.IsNumber(), r.IsString():
		return value.Num(1)
	default:
		return value.Num(0)
	}
}

// keyFn implements key(x): for an identifier argument, the first key of
// that variable's array; for an array-access argument, the string form
// of the INDEX EXPRESSION itself (not a value lookup); otherwise "".
// Grounded directly on kvstdlib_key.
func keyFn(ev Evaluator, args []ast.Node) value.Result {
	if len(args) != 1 {
		ev.Report(diag.Semanticf("key() requires exactly 1 argument"))
		return value.Str("")
	}
	switch n := args[0].(type) {
	case *ast.Identifier:
		v := ev.CurrentFrame().Lookup(n.Name)
		if v == nil {
			return value.Str("")
		}
		return value.Str(v.Array.First())
	case *ast.ArrayAccess:
		idx := ev.Eval(n.Index, value.Arithmetic)
		return value.Str(idx.AsText())
	default:
		return value.Str("")
	}
}

// modFn implements mod(a, b): both arguments must evaluate to numbers;
// the result truncates toward zero via an (int) cast, matching
// kvstdlib_mod's `((int) a) % ((int) b)` exactly rather than a
// floor-style modulo (DESIGN.md Open Question 3).
func modFn(ev Evaluator, args []ast.Node) value.Result {
	if len(args) != 2 {
		ev.Report(diag.Semanticf("mod() requires exactly 2 arguments"))
		return value.Num(0)
	}
	a := ev.Eval(args[0], value.Arithmetic)
	b := ev.Eval(args[1], value.Arithmetic)
	if !a.IsNumber() || !b.IsNumber() {
		ev.Report(diag.Semanticf("mod() requires numeric arguments"))
		return value.Num(0)
	}
	ai := int64(a.Number)
	bi := int64(b.Number)
	if bi == 0 {
		return value.Num(0)
	}
	return value.Num(float64(ai % bi))
}

// barFn is the reserved extension slot. It performs no computation and
// returns a default numeric 0, matching kvstdlib_bar's no-op
// FunctionReturn.
func barFn(ev Evaluator, args []ast.Node) value.Result {
	return value.Num(0)
}
