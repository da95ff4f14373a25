package answer

import (
	"encoding/json"
	"fmt"
)

// Equatable is a user-extended answer value supporting total equality.
// Payload returns the value's own canonical JSON encoding; a registered
// Decoder reverses it.
type Equatable interface {
	TypeName() string
	EqualTo(other Equatable) bool
	Payload() (json.RawMessage, error)
}

// Comparable is an Equatable with a total order.
type Comparable interface {
	Equatable
	LessThan(other Comparable) (bool, error)
}

// Decoder reconstructs an extension value from its canonical payload.
type Decoder func(payload json.RawMessage) (Equatable, error)

// Registry maps extension type names to decoders. It is an explicit value
// rather than package state so tests can register and deregister types
// without ordering hazards.
type Registry struct {
	decoders map[string]Decoder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Register installs a decoder for the given type name, replacing any
// previous registration.
func (r *Registry) Register(name string, dec Decoder) {
	r.decoders[name] = dec
}

// Deregister removes a registration if present.
func (r *Registry) Deregister(name string) {
	delete(r.decoders, name)
}

// Registered reports whether a decoder exists for the type name.
func (r *Registry) Registered(name string) bool {
	_, ok := r.decoders[name]
	return ok
}

func (r *Registry) decode(name string, payload json.RawMessage) (Equatable, error) {
	if r == nil {
		return nil, fmt.Errorf("decode %s: nil registry", name)
	}
	dec, ok := r.decoders[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	v, err := dec(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return v, nil
}

// UnknownTypeError reports a payload whose type name has no registered
// decoder.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("no decoder registered for answer type %q", e.Name)
}
