// Package script implements the CLI's script-file driver (spec.md §6):
// read the whole file into memory, lex it once as a single buffer, parse
// it, and execute it.
package script

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/kvlang/keyva/internal/ast"
	"github.com/kvlang/keyva/internal/config"
	"github.com/kvlang/keyva/internal/interp"
	"github.com/kvlang/keyva/internal/parser"
)

// Run reads path, parses it, and executes it against a fresh
// Interpreter. Program output goes to out, diagnostics to diagW.
// Returns the process exit code spec.md §6 names: 0 on success, 1 only
// if the file cannot be opened. Parse and runtime errors are reported to
// diagW but do not change the exit code (spec.md §7).
func Run(path string, cfg config.Config, out, diagW io.Writer) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(diagW, "keyva: cannot open %s: %v\n", path, err)
		return 1
	}
	return RunSource(string(source), cfg, out, diagW)
}

// RunSource runs program source text directly, used by Run and by
// end-to-end tests that don't want to touch the filesystem.
func RunSource(source string, cfg config.Config, out, diagW io.Writer) int {
	funcs := ast.NewFuncTable()
	p := parser.New(source, funcs)
	p.MaxFunctions = cfg.MaxFunctions
	program := p.ParseProgram()

	// Parser errors abandon only the offending statement (spec.md §7);
	// they are reported but do not by themselves fail the run — only a
	// file that could not be opened does (spec.md §6).
	for _, e := range p.Errors {
		fmt.Fprintln(diagW, e)
	}

	ev := interp.New(funcs, cfg.Limits(), out)
	ev.SetDiag(diagW)
	ev.Run(program)
	return 0
}

// RunCapture is a convenience for tests: runs source and returns captured
// stdout, captured diagnostics, and the exit code.
func RunCapture(source string, cfg config.Config) (stdout, diagnostics string, code int) {
	var outBuf, diagBuf bytes.Buffer
	code = RunSource(source, cfg, &outBuf, &diagBuf)
	return outBuf.String(), diagBuf.String(), code
}
