package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuncTableDefineAndLookup(t *testing.T) {
	ft := NewFuncTable()
	fd := &FunctionDefinition{Name: "f", Params: []string{"a"}}
	assert.NoError(t, ft.Define(fd, 0))

	got, ok := ft.Lookup("f")
	assert.True(t, ok)
	assert.Same(t, fd, got)

	_, ok = ft.Lookup("missing")
	assert.False(t, ok)
}

func TestFuncTableRedefinitionDoesNotCountAgainstLimit(t *testing.T) {
	ft := NewFuncTable()
	fd1 := &FunctionDefinition{Name: "f"}
	fd2 := &FunctionDefinition{Name: "f"}
	assert.NoError(t, ft.Define(fd1, 1))
	assert.NoError(t, ft.Define(fd2, 1), "redefining an existing name must not hit the limit")

	got, _ := ft.Lookup("f")
	assert.Same(t, fd2, got)
}

func TestFuncTableEnforcesMaxFunctionsForNewNames(t *testing.T) {
	ft := NewFuncTable()
	assert.NoError(t, ft.Define(&FunctionDefinition{Name: "a"}, 1))
	assert.Error(t, ft.Define(&FunctionDefinition{Name: "b"}, 1))
}
