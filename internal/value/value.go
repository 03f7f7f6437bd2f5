// Package value implements the Language's value model: a tagged union of
// number, string, and associative array, plus the ordered associative
// array itself.
//
// Every variable's payload is always an associative array (see Assoc); a
// scalar is the one-entry array {"" -> text}. Evaluation results are a
// separate, smaller tagged union (Result) since an evaluation never
// creates a durable binding by itself.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Pair is one (key, value) entry of an associative array. Both key and
// value are always stored as text; numeric values are formatted on the
// way in.
type Pair struct {
	Key   string
	Value string
}

// Assoc is an ordered, duplicate-key-free sequence of Pairs. Lookup is a
// linear scan, matching the reference's linear AssocArray; Go's slice
// growth already gives the geometric capacity growth the reference's
// capacity-4-then-double scheme achieves by hand.
type Assoc struct {
	Pairs []Pair
}

// NewAssoc returns an empty array.
func NewAssoc() *Assoc {
	return &Assoc{}
}

// Scalar returns a fresh single-entry array holding text under the
// default key "".
func Scalar(text string) *Assoc {
	return &Assoc{Pairs: []Pair{{Key: "", Value: text}}}
}

// Get returns the value stored under key and whether it was found.
func (a *Assoc) Get(key string) (string, bool) {
	for _, p := range a.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Set stores value under key, overwriting an existing entry with the same
// key or appending a new one, preserving insertion order.
func (a *Assoc) Set(key, val string) {
	for i, p := range a.Pairs {
		if p.Key == key {
			a.Pairs[i].Value = val
			return
		}
	}
	a.Pairs = append(a.Pairs, Pair{Key: key, Value: val})
}

// Clear empties the array in place without replacing the slice header
// the caller may be holding, matching the reference's "cleared, not
// removed" for-loop-variable semantics (spec.md §4.3 For).
func (a *Assoc) Clear() {
	a.Pairs = a.Pairs[:0]
}

// Len returns the number of entries.
func (a *Assoc) Len() int {
	return len(a.Pairs)
}

// First returns the first entry's key, or "" if the array is empty.
// Grounded on kvstdlib_key's direct `pairs[0].key` access with no
// found-guard beyond a nil variable check.
func (a *Assoc) First() string {
	if len(a.Pairs) == 0 {
		return ""
	}
	return a.Pairs[0].Key
}

// Copy returns a deep copy of a, used when assigning an array value into
// a variable or returning an array from a function so the original
// frame's array can be discarded safely (spec.md §4.3 Assignment, Return).
func (a *Assoc) Copy() *Assoc {
	cp := &Assoc{Pairs: make([]Pair, len(a.Pairs))}
	copy(cp.Pairs, a.Pairs)
	return cp
}

// Truthy implements the Language's truthiness rule for arrays: an array
// with at least one entry is true.
func (a *Assoc) Truthy() bool {
	return len(a.Pairs) > 0
}

// Print renders the array in the observable print format:
// {"k1": "v1", "k2": "v2"}.
func (a *Assoc) Print() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range a.Pairs {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %q", p.Key, p.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Context is the evaluation-context flag spec.md §4.3 threads through
// expression evaluation. Identifier and array-access resolution is the
// same under both flags (see evalIdentifier in internal/interp): a
// single-entry array collapses to its value in either context.
type Context int

const (
	Arithmetic Context = iota
	Print
)

// Kind tags a Result's payload.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindArray
)

// Result is the transient value produced by expression evaluation. It is
// never stored directly; callers either print it, collapse it into a
// variable's array, or feed it to another expression.
type Result struct {
	Kind   Kind
	Number float64
	Text   string
	Array  *Assoc
}

// Num builds a number Result.
func Num(f float64) Result { return Result{Kind: KindNumber, Number: f} }

// Str builds a string Result.
func Str(s string) Result { return Result{Kind: KindString, Text: s} }

// Arr builds an array Result wrapping arr directly (a borrowed reference,
// per spec.md §3's Evaluation result definition — callers that need to
// retain it across a frame boundary must Copy it themselves).
func Arr(arr *Assoc) Result { return Result{Kind: KindArray, Array: arr} }

// IsNumber, IsString, IsArray are convenience kind tests.
func (r Result) IsNumber() bool { return r.Kind == KindNumber }
func (r Result) IsString() bool { return r.Kind == KindString }
func (r Result) IsArray() bool  { return r.Kind == KindArray }

// AsText renders r as the text that would be stored in an array slot or
// printed as a bare string, per spec.md's "string form of the value"
// language used throughout §4.3.
func (r Result) AsText() string {
	switch r.Kind {
	case KindNumber:
		return FormatNumber(r.Number)
	case KindString:
		return r.Text
	default:
		return r.Array.Print()
	}
}

// Truthy implements the Language's truthiness rule (spec.md §4.3 If):
// number != 0, non-empty string, or array with >= 1 entry.
func (r Result) Truthy() bool {
	switch r.Kind {
	case KindNumber:
		return r.Number != 0
	case KindString:
		return r.Text != ""
	default:
		return r.Array.Truthy()
	}
}

// LooksNumeric reports whether s would parse as a numeric literal under
// the Language's deliberately lenient rule: first character is a digit,
// or '-' followed by a digit (spec.md §4.3 "Literal numeric test"; ported
// from the original's `isdigit(s[0]) || (s[0]=='-' && isdigit(s[1]))`).
func LooksNumeric(s string) bool {
	if s == "" {
		return false
	}
	if isDigit(s[0]) {
		return true
	}
	if s[0] == '-' && len(s) > 1 && isDigit(s[1]) {
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ParseNumber parses s as a double, defaulting to 0 on failure (the
// evaluator substitutes 0 for any value that looks numeric by
// LooksNumeric but fails to actually parse, e.g. "12abc").
func ParseNumber(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatNumber renders f in the shortest round-trip decimal form, the Go
// analogue of the reference's `%g` formatting used at every
// number-to-string boundary (array keys, assignment storage, print).
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
