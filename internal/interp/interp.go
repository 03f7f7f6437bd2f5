// Package interp implements the Language's tree-walking evaluator
// (spec.md §4.3): expression evaluation with the arithmetic/print context
// flag, statement execution, and the return-unwinding control-flow
// signal.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/kvlang/keyva/internal/ast"
	"github.com/kvlang/keyva/internal/builtin"
	"github.com/kvlang/keyva/internal/diag"
	"github.com/kvlang/keyva/internal/env"
	"github.com/kvlang/keyva/internal/value"
)

// Limits bounds the resource model spec.md §3/§5 leaves to the
// implementer. Zero fields mean unlimited.
type Limits struct {
	MaxVariables int
	MaxFunctions int
	MaxScopes    int
}

// Interpreter holds everything one evaluation session needs: the call
// stack, the shared function table, and the output/diagnostic sinks.
// A script run constructs a fresh Interpreter; a REPL session reuses one
// across lines so variables and function definitions persist, matching
// the teacher's one-evaluator-per-session repl.Repl.Start pattern.
type Interpreter struct {
	Stack  *env.Stack
	Funcs  *ast.FuncTable
	Out    io.Writer
	Diag   io.Writer
	Limits Limits
}

// New returns an Interpreter writing program output to out and
// diagnostics to os.Stderr. Call SetDiag to redirect diagnostics (tests
// typically capture both into buffers).
func New(funcs *ast.FuncTable, limits Limits, out io.Writer) *Interpreter {
	return &Interpreter{
		Stack:  env.NewStack(limits.MaxScopes),
		Funcs:  funcs,
		Out:    out,
		Diag:   os.Stderr,
		Limits: limits,
	}
}

// SetDiag overrides the diagnostic sink (default os.Stderr).
func (i *Interpreter) SetDiag(w io.Writer) { i.Diag = w }

// Report writes a single diagnostic line, matching spec.md §7's
// propagation policy: errors are reported and do not abort the process.
func (i *Interpreter) Report(d *diag.Diagnostic) {
	fmt.Fprintln(i.Diag, d.Message)
}

// CurrentFrame exposes the active frame, used by builtin.Evaluator's
// key() implementation.
func (i *Interpreter) CurrentFrame() *env.Frame {
	return i.Stack.Current()
}

// signalKind distinguishes normal completion from an in-flight return,
// per spec.md §4.3's two-state control-flow machine.
type signalKind int

const (
	sigNormal signalKind = iota
	sigReturning
)

type signal struct {
	kind  signalKind
	value value.Result
}

// Run executes a top-level statement list in order (spec.md §4.3 entry
// point). A return reached outside any function has no call frame to
// consume it: it ends the run, the remaining top-level statements are
// skipped, and its value is discarded.
func (i *Interpreter) Run(block ast.Block) {
	i.exec(block)
}

// exec runs block's statements in order, stopping and propagating the
// moment a Return statement fires — the "block loop observes the state
// after each statement and exits immediately when returning" rule
// (spec.md §4.3 State machines, §9 "Return across nested blocks").
func (i *Interpreter) exec(block ast.Block) signal {
	for _, stmt := range block {
		sig := i.execStmt(stmt)
		if sig.kind == sigReturning {
			return sig
		}
	}
	return signal{kind: sigNormal}
}

func (i *Interpreter) execStmt(node ast.Node) signal {
	switch n := node.(type) {
	case *ast.Print:
		r := i.Eval(n.Expr, value.Print)
		fmt.Fprintln(i.Out, r.AsText())
		return signal{kind: sigNormal}

	case *ast.Assignment:
		i.execAssignment(n)
		return signal{kind: sigNormal}

	case *ast.If:
		cond := i.Eval(n.Cond, value.Arithmetic)
		if cond.Truthy() {
			return i.exec(n.Then)
		}
		if n.Else != nil {
			return i.exec(n.Else)
		}
		return signal{kind: sigNormal}

	case *ast.While:
		for i.Eval(n.Cond, value.Arithmetic).Truthy() {
			sig := i.exec(n.Body)
			if sig.kind == sigReturning {
				return sig
			}
		}
		return signal{kind: sigNormal}

	case *ast.For:
		return i.execFor(n)

	case *ast.FunctionDefinition:
		// Registered globally at parse time; executing the node is a
		// no-op (spec.md §4.3 "Function definition").
		return signal{kind: sigNormal}

	case *ast.FunctionCall:
		i.CallFunction(n.Name, n.Args)
		return signal{kind: sigNormal}

	case *ast.Return:
		var r value.Result
		if n.Expr == nil {
			r = value.Num(0)
		} else {
			r = i.Eval(n.Expr, value.Arithmetic)
			if r.IsArray() {
				r = value.Arr(r.Array.Copy())
			}
		}
		return signal{kind: sigReturning, value: r}

	default:
		return signal{kind: sigNormal}
	}
}

func (i *Interpreter) execFor(n *ast.For) signal {
	source := i.Eval(n.Expr, value.Print)

	var elems []value.Pair
	if source.IsArray() {
		elems = source.Array.Pairs
	} else {
		elems = []value.Pair{{Key: "", Value: source.AsText()}}
	}

	maxVars := i.Limits.MaxVariables
	for _, elem := range elems {
		v, err := i.Stack.Current().GetOrCreate(n.LoopVar, maxVars)
		if err != nil {
			i.Report(diag.Resourcef("%s", err.Error()))
			return signal{kind: sigNormal}
		}
		v.Array = &value.Assoc{Pairs: []value.Pair{{Key: elem.Key, Value: elem.Value}}}

		sig := i.exec(n.Body)
		v.Array.Clear()
		if sig.kind == sigReturning {
			return sig
		}
	}
	return signal{kind: sigNormal}
}

func (i *Interpreter) execAssignment(n *ast.Assignment) {
	rhs := i.Eval(n.Value, value.Arithmetic)

	if n.Target.Index == nil {
		maxVars := i.Limits.MaxVariables
		v, err := i.Stack.Current().GetOrCreate(n.Target.Name, maxVars)
		if err != nil {
			i.Report(diag.Resourcef("%s", err.Error()))
			return
		}
		if rhs.IsArray() {
			v.Array = rhs.Array.Copy()
			return
		}
		v.Array.Clear()
		v.Array.Set("", rhs.AsText())
		return
	}

	// Array-element target: the index is evaluated in PRINT context,
	// not arithmetic — an asymmetry confirmed against the reference's
	// execute_assignment (DESIGN.md, spec.md §4.3 Assignment).
	idxResult := i.Eval(n.Target.Index, value.Print)
	key, ok := indexKey(idxResult)
	if !ok {
		i.Report(diag.Semanticf("Array index must be a string or number"))
		return
	}
	if rhs.IsArray() {
		i.Report(diag.Semanticf("Cannot assign an array into a single array element"))
		return
	}

	maxVars := i.Limits.MaxVariables
	v, err := i.Stack.Current().GetOrCreate(n.Target.Name, maxVars)
	if err != nil {
		i.Report(diag.Resourcef("%s", err.Error()))
		return
	}
	v.Array.Set(key, rhs.AsText())
}

// indexKey converts an array-index evaluation result to the key text
// used to address an Assoc entry, per spec.md §4.3: a numeric index
// converts to its shortest decimal form; a string index is used as-is.
func indexKey(r value.Result) (string, bool) {
	switch {
	case r.IsNumber():
		return value.FormatNumber(r.Number), true
	case r.IsString():
		return r.Text, true
	default:
		return "", false
	}
}

// Eval evaluates an expression node to a Result under the given context.
// This is a direct type-switch dispatcher, grounded on the teacher's own
// eval/eval_expressions.go Eval(n parser.Node) pattern rather than the
// heavier Visitor double-dispatch also present in that repo (parser/node.go).
func (i *Interpreter) Eval(node ast.Node, ctx value.Context) value.Result {
	switch n := node.(type) {
	case *ast.Literal:
		if value.LooksNumeric(n.Text) {
			return value.Num(value.ParseNumber(n.Text))
		}
		return value.Str(n.Text)

	case *ast.Identifier:
		return i.evalIdentifier(n.Name)

	case *ast.ArrayAccess:
		return i.evalArrayAccess(n)

	case *ast.BinaryOp:
		return i.evalBinaryOp(n, ctx)

	case *ast.FunctionCall:
		return i.CallFunction(n.Name, n.Args)

	default:
		i.Report(diag.Semanticf("unsupported expression"))
		return value.Num(0)
	}
}

// evalIdentifier implements spec.md §4.3's collapse rule: an array with
// exactly one entry collapses to that entry's value (number if it looks
// numeric, else string); any other size yields the array itself. The
// rule is identical in arithmetic and print context (spec.md §4.3
// explicitly states both contexts apply "the same collapse").
func (i *Interpreter) evalIdentifier(name string) value.Result {
	v := i.Stack.Current().Lookup(name)
	if v == nil {
		i.Report(diag.Semanticf("Undefined variable %q", name))
		return value.Str("")
	}
	if v.Array.Len() == 1 {
		text := v.Array.Pairs[0].Value
		if value.LooksNumeric(text) {
			return value.Num(value.ParseNumber(text))
		}
		return value.Str(text)
	}
	return value.Arr(v.Array)
}

func (i *Interpreter) evalArrayAccess(n *ast.ArrayAccess) value.Result {
	v := i.Stack.Current().Lookup(n.Name)
	if v == nil {
		i.Report(diag.Semanticf("Undefined variable %q", n.Name))
		return value.Str("")
	}
	idxResult := i.Eval(n.Index, value.Arithmetic)
	key, ok := indexKey(idxResult)
	if !ok {
		i.Report(diag.Semanticf("Array index must be a string or number"))
		return value.Str("")
	}
	text, found := v.Array.Get(key)
	if !found {
		i.Report(diag.Semanticf("Undefined array key %q", key))
		return value.Str("")
	}
	if value.LooksNumeric(text) {
		return value.Num(value.ParseNumber(text))
	}
	return value.Str(text)
}

// evalBinaryOp implements spec.md §4.3 Binary operators: +,-,*,/ force
// arithmetic context on both operands regardless of ctx; comparisons
// inherit ctx. Either way both operands must evaluate to numbers.
func (i *Interpreter) evalBinaryOp(n *ast.BinaryOp, ctx value.Context) value.Result {
	operandCtx := ctx
	if n.Op.IsArithmetic() {
		operandCtx = value.Arithmetic
	}

	left := i.Eval(n.Left, operandCtx)
	right := i.Eval(n.Right, operandCtx)

	if !left.IsNumber() || !right.IsNumber() {
		i.Report(diag.Semanticf("type mismatch: operator %q requires numeric operands", n.Op))
		return value.Num(0)
	}

	a, b := left.Number, right.Number
	switch n.Op {
	case ast.Add:
		return value.Num(a + b)
	case ast.Sub:
		return value.Num(a - b)
	case ast.Mul:
		return value.Num(a * b)
	case ast.Div:
		return value.Num(a / b)
	case ast.Lt:
		return boolResult(a < b)
	case ast.Gt:
		return boolResult(a > b)
	case ast.Le:
		return boolResult(a <= b)
	case ast.Ge:
		return boolResult(a >= b)
	case ast.Eq:
		return boolResult(a == b)
	case ast.Ne:
		return boolResult(a != b)
	default:
		i.Report(diag.Semanticf("unsupported operator %q", n.Op))
		return value.Num(0)
	}
}

func boolResult(b bool) value.Result {
	if b {
		return value.Num(1)
	}
	return value.Num(0)
}

// Compile-time check that *Interpreter satisfies builtin.Evaluator, so
// built-in handlers can be called with the Interpreter directly.
var _ builtin.Evaluator = (*Interpreter)(nil)

// CallFunction dispatches a call by name: built-ins first, then
// user-defined functions (spec.md §4.3 "Function call").
func (i *Interpreter) CallFunction(name string, argNodes []ast.Node) value.Result {
	if fn, ok := builtin.Lookup(name); ok {
		return fn(i, argNodes)
	}

	fd, ok := i.Funcs.Lookup(name)
	if !ok {
		i.Report(diag.Semanticf("Undefined function %q", name))
		return value.Num(0)
	}

	args := make([]value.Result, len(argNodes))
	for idx, a := range argNodes {
		args[idx] = i.Eval(a, value.Arithmetic)
	}

	if err := i.Stack.Push(); err != nil {
		i.Report(diag.Resourcef("%s", err.Error()))
		return value.Num(0)
	}
	defer i.Stack.Pop()

	maxVars := i.Limits.MaxVariables
	for idx, paramName := range fd.Params {
		v, err := i.Stack.Current().GetOrCreate(paramName, maxVars)
		if err != nil {
			i.Report(diag.Resourcef("%s", err.Error()))
			return value.Num(0)
		}
		if idx < len(args) {
			if args[idx].IsArray() {
				v.Array = args[idx].Array.Copy()
			} else {
				v.Array.Clear()
				v.Array.Set("", args[idx].AsText())
			}
		} else {
			// Extra parameters beyond the argument count bind to "0"
			// (spec.md §4.3 "Function call" step 5).
			v.Array.Clear()
			v.Array.Set("", "0")
		}
	}

	sig := i.exec(fd.Body)
	if sig.kind == sigReturning {
		return sig.value
	}
	return value.Num(0)
}
