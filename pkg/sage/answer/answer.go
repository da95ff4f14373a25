// Package answer defines the typed values the engine derives, the
// extension-type registry, and the comparison semantics shared by the
// predicate evaluator.
package answer

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies the variant held by an Answer.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindDouble
	KindString
	KindComparable
	KindEquatable
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindComparable:
		return "comparable"
	case KindEquatable:
		return "equatable"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Comparison errors. ErrIncompatible covers operands whose variants cannot
// be compared at all; ErrNotOrdered covers operands that support equality
// but carry no total order (booleans, equatable extension values).
var (
	ErrIncompatible = errors.New("answers are not type compatible")
	ErrNotOrdered   = errors.New("answers have no ordering")
)

// Answer is a tagged value: bool, int, double, string, or a registered
// extension value. The zero Answer is Bool(false).
type Answer struct {
	kind Kind
	b    bool
	i    int64
	d    float64
	s    string
	ext  Equatable
}

// Bool wraps a boolean value.
func Bool(b bool) Answer { return Answer{kind: KindBool, b: b} }

// Int wraps an integer value.
func Int(i int64) Answer { return Answer{kind: KindInt, i: i} }

// Double wraps a floating-point value.
func Double(d float64) Answer { return Answer{kind: KindDouble, d: d} }

// String wraps a string value.
func String(s string) Answer { return Answer{kind: KindString, s: s} }

// FromComparable wraps a user-registered ordered extension value.
func FromComparable(c Comparable) Answer { return Answer{kind: KindComparable, ext: c} }

// FromEquatable wraps a user-registered equality-only extension value.
func FromEquatable(e Equatable) Answer { return Answer{kind: KindEquatable, ext: e} }

// Kind returns the variant of the answer.
func (a Answer) Kind() Kind { return a.kind }

// Bool returns the boolean value; ok is false for other variants.
func (a Answer) Bool() (bool, bool) { return a.b, a.kind == KindBool }

// Int returns the integer value; ok is false for other variants.
func (a Answer) Int() (int64, bool) { return a.i, a.kind == KindInt }

// Double returns the floating-point value; ok is false for other variants.
func (a Answer) Double() (float64, bool) { return a.d, a.kind == KindDouble }

// Str returns the string value; ok is false for other variants.
func (a Answer) Str() (string, bool) { return a.s, a.kind == KindString }

// Extension returns the extension value; ok is false for plain variants.
func (a Answer) Extension() (Equatable, bool) {
	return a.ext, a.kind == KindComparable || a.kind == KindEquatable
}

// String renders the answer for logs and diagnostics.
func (a Answer) String() string {
	switch a.kind {
	case KindBool:
		return strconv.FormatBool(a.b)
	case KindInt:
		return strconv.FormatInt(a.i, 10)
	case KindDouble:
		return strconv.FormatFloat(a.d, 'g', -1, 64)
	case KindString:
		return strconv.Quote(a.s)
	case KindComparable, KindEquatable:
		return fmt.Sprintf("%s(%v)", a.ext.TypeName(), a.ext)
	}
	return "invalid"
}

// Compatible reports whether two answers may be compared: same variant,
// same registered extension type, or an int/double pair (the int widens).
func Compatible(a, b Answer) bool {
	if a.kind == b.kind {
		if a.kind == KindComparable || a.kind == KindEquatable {
			return a.ext.TypeName() == b.ext.TypeName()
		}
		return true
	}
	return numericPair(a, b)
}

func numericPair(a, b Answer) bool {
	return (a.kind == KindInt && b.kind == KindDouble) ||
		(a.kind == KindDouble && b.kind == KindInt)
}

func (a Answer) widened() float64 {
	if a.kind == KindInt {
		return float64(a.i)
	}
	return a.d
}

// Same reports strict structural equality: identical variant and value,
// with no numeric widening. Used for round-trip checks and rule identity.
func (a Answer) Same(b Answer) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindDouble:
		return a.d == b.d
	case KindString:
		return a.s == b.s
	case KindComparable, KindEquatable:
		return a.ext.TypeName() == b.ext.TypeName() && a.ext.EqualTo(b.ext)
	}
	return false
}

// Equal reports whether two answers hold the same value. Returns
// ErrIncompatible when the operands cannot be compared.
func Equal(a, b Answer) (bool, error) {
	if !Compatible(a, b) {
		return false, ErrIncompatible
	}
	if numericPair(a, b) {
		return a.widened() == b.widened(), nil
	}
	switch a.kind {
	case KindBool:
		return a.b == b.b, nil
	case KindInt:
		return a.i == b.i, nil
	case KindDouble:
		return a.d == b.d, nil
	case KindString:
		return a.s == b.s, nil
	case KindComparable, KindEquatable:
		return a.ext.EqualTo(b.ext), nil
	}
	return false, ErrIncompatible
}

// Less reports whether a orders strictly before b. Booleans and equatable
// extension values return ErrNotOrdered; incompatible variants return
// ErrIncompatible.
func Less(a, b Answer) (bool, error) {
	if !Compatible(a, b) {
		return false, ErrIncompatible
	}
	if numericPair(a, b) {
		return a.widened() < b.widened(), nil
	}
	switch a.kind {
	case KindBool, KindEquatable:
		return false, ErrNotOrdered
	case KindInt:
		return a.i < b.i, nil
	case KindDouble:
		return a.d < b.d, nil
	case KindString:
		return a.s < b.s, nil
	case KindComparable:
		return a.ext.(Comparable).LessThan(b.ext.(Comparable))
	}
	return false, ErrIncompatible
}
