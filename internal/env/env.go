// Package env implements the Language's environment: a flat vector of
// variable bindings per call frame, and a bounded stack of frames for
// function-call scoping.
//
// Frames never chain to a parent (spec.md §3 Environment: "Variables are
// only visible in the frame where they were created; there is no lexical
// closure capture") — this is the one place this reimplementation
// deliberately diverges from the teacher's scope.Scope, which supports
// closures via a Parent chain (see DESIGN.md).
package env

import (
	"fmt"

	"github.com/kvlang/keyva/internal/value"
)

// Variable is a named binding whose payload is always an associative
// array (spec.md §3 Variable).
type Variable struct {
	Name  string
	Array *value.Assoc
}

// Frame holds the variables visible in one call. It is a flat vector, not
// a map, matching spec.md §3's "flat vector of variable bindings"
// wording and the reference's linear `get_variable` scan; in practice a
// frame holds few enough variables that linear scan is the simpler,
// faithful choice over adding map-based lookup the spec doesn't ask for.
type Frame struct {
	vars []*Variable
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{}
}

// Lookup returns the variable named name in this frame, or nil if absent.
func (f *Frame) Lookup(name string) *Variable {
	for _, v := range f.vars {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// GetOrCreate returns the variable named name, creating it with an empty
// array if it does not yet exist. maxVariables bounds the frame's size;
// 0 means unlimited. Returns an error if creating a new variable would
// exceed the bound.
func (f *Frame) GetOrCreate(name string, maxVariables int) (*Variable, error) {
	if v := f.Lookup(name); v != nil {
		return v, nil
	}
	if maxVariables > 0 && len(f.vars) >= maxVariables {
		return nil, fmt.Errorf("too many variables (limit %d)", maxVariables)
	}
	v := &Variable{Name: name, Array: value.NewAssoc()}
	f.vars = append(f.vars, v)
	return v, nil
}

// Stack is a bounded stack of frames supporting function calls. The
// bottom frame is the top-level program's frame.
type Stack struct {
	frames []*Frame
	max    int
}

// NewStack returns a stack holding a single top-level frame. max bounds
// the stack depth (including the top-level frame); 0 means unlimited.
func NewStack(max int) *Stack {
	return &Stack{frames: []*Frame{NewFrame()}, max: max}
}

// Current returns the active (topmost) frame.
func (s *Stack) Current() *Frame {
	return s.frames[len(s.frames)-1]
}

// Push enters a call by pushing a brand-new, empty frame with no
// visibility into the caller's frame (spec.md §3/§9: no closure capture).
// Returns an error instead of pushing if the stack is already at its
// configured maximum depth.
func (s *Stack) Push() error {
	if s.max > 0 && len(s.frames) >= s.max {
		return fmt.Errorf("scope stack overflow (limit %d)", s.max)
	}
	s.frames = append(s.frames, NewFrame())
	return nil
}

// Pop exits a call, restoring the prior frame exactly as it was (it was
// never touched while the callee's frame was current). Returns an error
// if called with only the top-level frame remaining.
func (s *Stack) Pop() error {
	if len(s.frames) <= 1 {
		return fmt.Errorf("scope stack underflow")
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Depth reports the current number of frames, including the top-level
// frame.
func (s *Stack) Depth() int {
	return len(s.frames)
}
