package answer

import (
	"encoding/json"
	"errors"
	"testing"
)

func roundTrip(t *testing.T, a Answer, reg *Registry) Answer {
	t.Helper()
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("encode %v: %v", a, err)
	}
	decoded, err := Decode(data, reg)
	if err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return decoded
}

func TestRoundTripPlainVariants(t *testing.T) {
	for _, a := range []Answer{
		Bool(true),
		Bool(false),
		Int(42),
		Int(-7),
		Double(3.25),
		String("full"),
		String(""),
	} {
		if got := roundTrip(t, a, nil); !got.Same(a) {
			t.Errorf("round trip of %v produced %v", a, got)
		}
	}
}

func TestEncodingShape(t *testing.T) {
	cases := []struct {
		a    Answer
		want string
	}{
		{Bool(true), `{"bool":true}`},
		{Int(3), `{"int":3}`},
		{Double(1.5), `{"double":1.5}`},
		{String("x"), `{"string":"x"}`},
	}
	for _, c := range cases {
		data, err := json.Marshal(c.a)
		if err != nil {
			t.Fatalf("encode %v: %v", c.a, err)
		}
		if string(data) != c.want {
			t.Errorf("encode %v = %s, want %s", c.a, data, c.want)
		}
	}
}

func TestIntDoubleKeysStayDistinct(t *testing.T) {
	a, err := Decode([]byte(`{"double":3}`), nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind() != KindDouble {
		t.Errorf("decoded {\"double\":3} as %s, want double", a.Kind())
	}
}

func TestRoundTripExtension(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Version", decodeVersion)

	a := FromComparable(version{2, 3})
	if got := roundTrip(t, a, reg); !got.Same(a) {
		t.Errorf("comparable round trip produced %v", got)
	}

	e := FromEquatable(version{1, 1})
	if got := roundTrip(t, e, reg); !got.Same(e) {
		t.Errorf("equatable round trip produced %v", got)
	}
}

func TestDecodeUnregisteredType(t *testing.T) {
	a := FromComparable(version{1, 0})
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Decode(data, NewRegistry())
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("decode error = %v, want UnknownTypeError", err)
	}
	if unknown.Name != "Version" {
		t.Errorf("unknown type name = %q", unknown.Name)
	}
}

func TestDecodeComparableKeyRequiresOrder(t *testing.T) {
	// An equality-only type arriving under the comparable key is rejected.
	reg := NewRegistry()
	reg.Register("Flag", func(payload json.RawMessage) (Equatable, error) {
		return flag{}, nil
	})
	_, err := Decode([]byte(`{"comparableType":"Flag","comparable":[{}]}`), reg)
	if err == nil {
		t.Fatal("decoding a non-comparable type under comparableType succeeded")
	}
}

type flag struct{}

func (flag) TypeName() string                  { return "Flag" }
func (flag) EqualTo(Equatable) bool            { return true }
func (flag) Payload() (json.RawMessage, error) { return json.RawMessage(`{}`), nil }

func TestDecodeRejectsUnknownShape(t *testing.T) {
	if _, err := Decode([]byte(`{"float":1}`), nil); err == nil {
		t.Error("decoding an unknown variant key succeeded")
	}
	if _, err := Decode([]byte(`{"comparableType":"Version","comparable":[]}`), nil); err == nil {
		t.Error("decoding an empty payload array succeeded")
	}
}

func TestRegistryDeregister(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Version", decodeVersion)
	if !reg.Registered("Version") {
		t.Fatal("Registered(Version) = false after Register")
	}
	reg.Deregister("Version")
	if reg.Registered("Version") {
		t.Fatal("Registered(Version) = true after Deregister")
	}
}
