package answer

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

// version is a comparable extension type used across the package tests.
type version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

func (v version) TypeName() string { return "Version" }

func (v version) EqualTo(other Equatable) bool {
	o, ok := other.(version)
	return ok && v == o
}

func (v version) LessThan(other Comparable) (bool, error) {
	o, ok := other.(version)
	if !ok {
		return false, fmt.Errorf("not a version: %T", other)
	}
	if v.Major != o.Major {
		return v.Major < o.Major, nil
	}
	return v.Minor < o.Minor, nil
}

func (v version) Payload() (json.RawMessage, error) {
	return json.Marshal(v)
}

func decodeVersion(payload json.RawMessage) (Equatable, error) {
	var v version
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func TestEqualSameVariant(t *testing.T) {
	cases := []struct {
		a, b Answer
		want bool
	}{
		{Bool(true), Bool(true), true},
		{Bool(true), Bool(false), false},
		{Int(3), Int(3), true},
		{Int(3), Int(4), false},
		{Double(1.5), Double(1.5), true},
		{String("a"), String("a"), true},
		{String("a"), String("b"), false},
	}
	for _, c := range cases {
		got, err := Equal(c.a, c.b)
		if err != nil {
			t.Fatalf("Equal(%v, %v): %v", c.a, c.b, err)
		}
		if got != c.want {
			t.Errorf("Equal(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestNumericWidening(t *testing.T) {
	if eq, err := Equal(Int(3), Double(3.0)); err != nil || !eq {
		t.Errorf("Equal(3, 3.0) = %v, %v; want true", eq, err)
	}
	if eq, err := Equal(Double(3.5), Int(3)); err != nil || eq {
		t.Errorf("Equal(3.5, 3) = %v, %v; want false", eq, err)
	}
	if lt, err := Less(Int(3), Double(3.5)); err != nil || !lt {
		t.Errorf("Less(3, 3.5) = %v, %v; want true", lt, err)
	}
	if lt, err := Less(Double(4.5), Int(4)); err != nil || lt {
		t.Errorf("Less(4.5, 4) = %v, %v; want false", lt, err)
	}
}

func TestNoWideningFromBool(t *testing.T) {
	if _, err := Equal(Bool(true), Int(1)); !errors.Is(err, ErrIncompatible) {
		t.Errorf("Equal(true, 1) error = %v, want ErrIncompatible", err)
	}
	if _, err := Less(Bool(false), Int(1)); !errors.Is(err, ErrIncompatible) {
		t.Errorf("Less(false, 1) error = %v, want ErrIncompatible", err)
	}
}

func TestBoolPairNotOrdered(t *testing.T) {
	if _, err := Less(Bool(true), Bool(false)); !errors.Is(err, ErrNotOrdered) {
		t.Errorf("Less(true, false) error = %v, want ErrNotOrdered", err)
	}
	if eq, err := Equal(Bool(true), Bool(true)); err != nil || !eq {
		t.Errorf("Equal(true, true) = %v, %v; want true", eq, err)
	}
}

func TestIncompatibleVariants(t *testing.T) {
	if _, err := Equal(Int(1), String("1")); !errors.Is(err, ErrIncompatible) {
		t.Errorf("Equal(1, \"1\") error = %v, want ErrIncompatible", err)
	}
	if _, err := Less(Int(1), String("1")); !errors.Is(err, ErrIncompatible) {
		t.Errorf("Less(1, \"1\") error = %v, want ErrIncompatible", err)
	}
}

func TestStringOrdering(t *testing.T) {
	if lt, err := Less(String("apple"), String("banana")); err != nil || !lt {
		t.Errorf("Less(apple, banana) = %v, %v; want true", lt, err)
	}
}

func TestComparableExtension(t *testing.T) {
	a := FromComparable(version{1, 2})
	b := FromComparable(version{1, 10})

	if eq, err := Equal(a, b); err != nil || eq {
		t.Errorf("Equal(1.2, 1.10) = %v, %v; want false", eq, err)
	}
	if lt, err := Less(a, b); err != nil || !lt {
		t.Errorf("Less(1.2, 1.10) = %v, %v; want true", lt, err)
	}
}

func TestEquatableExtensionNotOrdered(t *testing.T) {
	a := FromEquatable(version{1, 0})
	b := FromEquatable(version{2, 0})

	if eq, err := Equal(a, b); err != nil || eq {
		t.Errorf("Equal = %v, %v; want false", eq, err)
	}
	if _, err := Less(a, b); !errors.Is(err, ErrNotOrdered) {
		t.Errorf("Less error = %v, want ErrNotOrdered", err)
	}
}

func TestExtensionKindMismatch(t *testing.T) {
	a := FromComparable(version{1, 0})
	b := FromEquatable(version{1, 0})
	if _, err := Equal(a, b); !errors.Is(err, ErrIncompatible) {
		t.Errorf("Equal across extension kinds error = %v, want ErrIncompatible", err)
	}
}

func TestSame(t *testing.T) {
	if !Int(3).Same(Int(3)) {
		t.Error("Int(3).Same(Int(3)) = false")
	}
	if Int(3).Same(Double(3.0)) {
		t.Error("Same must not widen: Int(3).Same(Double(3)) = true")
	}
	if !FromComparable(version{1, 2}).Same(FromComparable(version{1, 2})) {
		t.Error("extension Same = false")
	}
}
