package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvlang/keyva/internal/ast"
	"github.com/kvlang/keyva/internal/parser"
)

func runSource(t *testing.T, src string) (string, string) {
	t.Helper()
	funcs := ast.NewFuncTable()
	p := parser.New(src, funcs)
	program := p.ParseProgram()
	require.False(t, p.HasErrors(), "unexpected parse errors: %v", p.Errors)

	var out, errs bytes.Buffer
	ev := New(funcs, Limits{}, &out)
	ev.SetDiag(&errs)
	ev.Run(program)
	return out.String(), errs.String()
}

// The six end-to-end scenarios from spec.md §8.

func TestScenarioArithmeticPrecedence(t *testing.T) {
	out, _ := runSource(t, "print(1+2*3)")
	assert.Equal(t, "7\n", out)
}

func TestScenarioVariableAssignment(t *testing.T) {
	out, _ := runSource(t, "x=10\nprint(x)")
	assert.Equal(t, "10\n", out)
}

func TestScenarioArrayPrint(t *testing.T) {
	out, _ := runSource(t, `a["lemon"]=3
a["lime"]=5
print(a)`)
	assert.Equal(t, `{"lemon": "3", "lime": "5"}`+"\n", out)
}

func TestScenarioForLoop(t *testing.T) {
	out, _ := runSource(t, `a["lemon"]=3
a["lime"]=5
for k in a
print(k)
end`)
	assert.Equal(t, "3\n5\n", out)
}

func TestScenarioFunctionDefinitionAndCall(t *testing.T) {
	out, _ := runSource(t, `def square(n)
return n*n
end
print(square(7))`)
	assert.Equal(t, "49\n", out)
}

func TestScenarioWhileLoop(t *testing.T) {
	out, _ := runSource(t, `i=0
while i<3
print(i)
i=i+1
end`)
	assert.Equal(t, "0\n1\n2\n", out)
}

// Additional semantics that aren't covered by the six scenarios above.

func TestSingleEntryArrayCollapsesToScalarInBothContexts(t *testing.T) {
	out, _ := runSource(t, `a["x"]=5
print(a+1)
print(a)`)
	assert.Equal(t, "6\n5\n", out)
}

func TestMultiEntryArrayDoesNotCollapseInArithmetic(t *testing.T) {
	_, errs := runSource(t, `a["x"]=1
a["y"]=2
print(a+1)`)
	assert.Contains(t, errs, "numeric operands")
}

func TestQuotedNumericStringEvaluatesAsNumber(t *testing.T) {
	out, _ := runSource(t, `x="123"
print(x+1)`)
	assert.Equal(t, "124\n", out)
}

func TestArrayElementAssignmentIndexUsesPrintContext(t *testing.T) {
	// i holds a single-entry array, so arithmetic context would collapse
	// it the same way; this instead checks that assigning through an
	// index expression which itself references a single-entry array
	// variable works end to end (index collapses to "2" either context,
	// so this is mostly a smoke test for the code path).
	out, _ := runSource(t, `i["k"]=2
a[i]=9
print(a[2])`)
	assert.Equal(t, "9\n", out)
}

func TestAssigningArrayIntoSingleElementIsError(t *testing.T) {
	_, errs := runSource(t, `b["p"]=1
b["q"]=2
a["x"]=b`)
	assert.Contains(t, errs, "Cannot assign an array into a single array element")
}

func TestForLoopClearsLoopVariableAfterEachIterationIncludingLast(t *testing.T) {
	funcs := ast.NewFuncTable()
	p := parser.New(`a["x"]=1
a["y"]=2
for k in a
end`, funcs)
	program := p.ParseProgram()
	require.False(t, p.HasErrors())

	var out, errs bytes.Buffer
	ev := New(funcs, Limits{}, &out)
	ev.SetDiag(&errs)
	ev.Run(program)

	v := ev.CurrentFrame().Lookup("k")
	require.NotNil(t, v)
	assert.Equal(t, 0, v.Array.Len(), "loop variable must be cleared after the final iteration")
}

func TestForLoopOverScalarIteratesOnceWithSyntheticEntry(t *testing.T) {
	out, _ := runSource(t, `s=42
for k in s
print(k)
end`)
	assert.Equal(t, "42\n", out)
}

func TestFunctionCallGetsFreshFrameWithNoCallerVisibility(t *testing.T) {
	_, errs := runSource(t, `x=5
def f()
print(x)
end
f()`)
	assert.Contains(t, errs, "Undefined variable")
}

func TestExtraParamsBeyondArgsBindToZero(t *testing.T) {
	out, _ := runSource(t, `def f(a, b)
print(b)
end
f(1)`)
	assert.Equal(t, "0\n", out)
}

func TestMissingReturnSynthesizesZero(t *testing.T) {
	out, _ := runSource(t, `def f()
x=1
end
print(f())`)
	assert.Equal(t, "0\n", out)
}

func TestReturnFullyUnwindsNestedBlocks(t *testing.T) {
	// A return buried inside an if inside a while inside the function
	// body must propagate all the way out to the caller (DESIGN.md Open
	// Question 1: full unwinding).
	out, _ := runSource(t, `def f()
i=0
while i<10
if i==3
return i
end
i=i+1
end
return 0-1
end
print(f())`)
	assert.Equal(t, "3\n", out)
}

func TestArrayArgumentsAreDeepCopiedAcrossCallBoundary(t *testing.T) {
	// a has two entries so the single-entry collapse rule doesn't turn
	// the argument into a scalar before it crosses the call boundary.
	out, _ := runSource(t, `def mutate(arr)
arr["x"]=99
return arr["x"]
end
a["x"]=1
a["y"]=2
print(mutate(a))
print(a["x"])`)
	assert.Equal(t, "99\n1\n", out)
}

func TestTruthinessRules(t *testing.T) {
	out, _ := runSource(t, `if 0
print("nonzero")
else
print("zero")
end
if ""
print("nonempty")
else
print("empty")
end`)
	assert.Equal(t, "zero\nempty\n", out)
}

func TestUndefinedArrayKeyIsReportedAsError(t *testing.T) {
	_, errs := runSource(t, `a["x"]=1
print(a["y"])`)
	assert.Contains(t, errs, "Undefined array key")
}

func TestFunctionRedefinitionUsesLatestDefinition(t *testing.T) {
	out, _ := runSource(t, `def f()
return 1
end
def f()
return 2
end
print(f())`)
	assert.Equal(t, "2\n", out)
}
