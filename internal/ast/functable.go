package ast

import "fmt"

// FuncTable is the global function registry that def statements populate
// at parse time (spec.md §4.3 "Function definition": "the function is
// registered globally with its parameter-list head and body subtree").
//
// A REPL session shares one FuncTable across successive parses so a
// function defined in an earlier line stays callable; a script run
// creates a fresh one per file.
type FuncTable struct {
	order []string
	fns   map[string]*FunctionDefinition
}

// NewFuncTable returns an empty table.
func NewFuncTable() *FuncTable {
	return &FuncTable{fns: make(map[string]*FunctionDefinition)}
}

// Define registers fd, overwriting any prior definition of the same name
// (DESIGN.md Open Question 2). maxFunctions bounds the number of
// *distinct* names the table may hold; 0 means unlimited. Exceeding the
// bound on a genuinely new name is a resource error; redefining an
// existing name never counts against the bound.
func (t *FuncTable) Define(fd *FunctionDefinition, maxFunctions int) error {
	if _, exists := t.fns[fd.Name]; !exists {
		if maxFunctions > 0 && len(t.order) >= maxFunctions {
			return fmt.Errorf("too many functions (limit %d)", maxFunctions)
		}
		t.order = append(t.order, fd.Name)
	}
	t.fns[fd.Name] = fd
	return nil
}

// Lookup returns the function registered under name, if any.
func (t *FuncTable) Lookup(name string) (*FunctionDefinition, bool) {
	fd, ok := t.fns[name]
	return fd, ok
}
