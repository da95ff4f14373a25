package answer

import (
	"encoding/json"
	"fmt"
)

// wire is the single-key canonical encoding of an Answer. Extension
// payloads travel inside a one-element array so the outer object stays a
// fixed shape regardless of the extension type's own encoding.
type wire struct {
	Bool           *bool             `json:"bool,omitempty"`
	Int            *int64            `json:"int,omitempty"`
	Double         *float64          `json:"double,omitempty"`
	String         *string           `json:"string,omitempty"`
	ComparableType string            `json:"comparableType,omitempty"`
	Comparable     []json.RawMessage `json:"comparable,omitempty"`
	EquatableType  string            `json:"equatableType,omitempty"`
	Equatable      []json.RawMessage `json:"equatable,omitempty"`
}

// MarshalJSON encodes the answer in canonical form.
func (a Answer) MarshalJSON() ([]byte, error) {
	var w wire
	switch a.kind {
	case KindBool:
		w.Bool = &a.b
	case KindInt:
		w.Int = &a.i
	case KindDouble:
		w.Double = &a.d
	case KindString:
		w.String = &a.s
	case KindComparable, KindEquatable:
		payload, err := a.ext.Payload()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", a.ext.TypeName(), err)
		}
		if a.kind == KindComparable {
			w.ComparableType = a.ext.TypeName()
			w.Comparable = []json.RawMessage{payload}
		} else {
			w.EquatableType = a.ext.TypeName()
			w.Equatable = []json.RawMessage{payload}
		}
	default:
		return nil, fmt.Errorf("encode answer: invalid kind %v", a.kind)
	}
	return json.Marshal(w)
}

// Decode parses a canonical answer encoding. Extension payloads are
// resolved through the registry; reg may be nil when no extension types
// are expected.
func Decode(data []byte, reg *Registry) (Answer, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return Answer{}, fmt.Errorf("decode answer: %w", err)
	}
	switch {
	case w.Bool != nil:
		return Bool(*w.Bool), nil
	case w.Int != nil:
		return Int(*w.Int), nil
	case w.Double != nil:
		return Double(*w.Double), nil
	case w.String != nil:
		return String(*w.String), nil
	case w.ComparableType != "":
		v, err := decodeExtension(reg, w.ComparableType, w.Comparable)
		if err != nil {
			return Answer{}, err
		}
		c, ok := v.(Comparable)
		if !ok {
			return Answer{}, fmt.Errorf("decode answer: type %q is not comparable", w.ComparableType)
		}
		return FromComparable(c), nil
	case w.EquatableType != "":
		v, err := decodeExtension(reg, w.EquatableType, w.Equatable)
		if err != nil {
			return Answer{}, err
		}
		return FromEquatable(v), nil
	}
	return Answer{}, fmt.Errorf("decode answer: no recognized variant key")
}

func decodeExtension(reg *Registry, name string, payload []json.RawMessage) (Equatable, error) {
	if len(payload) != 1 {
		return nil, fmt.Errorf("decode %s: payload must hold exactly one element, got %d", name, len(payload))
	}
	return reg.decode(name, payload[0])
}
