package lint

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cognicore/sage/pkg/sage/answer"
	"github.com/cognicore/sage/pkg/sage/engine"
)

// ConstraintKind classifies an answer constraint.
type ConstraintKind int

const (
	ConstraintAny ConstraintKind = iota
	ConstraintString
	ConstraintBool
	ConstraintInt
	ConstraintDouble
	ConstraintStrings
)

// Constraint restricts the answers a question may hold. ConstraintStrings
// additionally pins the allowed string values.
type Constraint struct {
	Kind   ConstraintKind
	Values []string
}

func (c Constraint) String() string {
	switch c.Kind {
	case ConstraintAny:
		return "any"
	case ConstraintString:
		return "string"
	case ConstraintBool:
		return "bool"
	case ConstraintInt:
		return "int"
	case ConstraintDouble:
		return "double"
	case ConstraintStrings:
		return fmt.Sprintf("one of [%s]", strings.Join(c.Values, ", "))
	}
	return "invalid"
}

// Allows reports whether an answer satisfies the constraint. Int and
// double accept either numeric variant, mirroring the evaluator's
// widening.
func (c Constraint) Allows(a answer.Answer) bool {
	switch c.Kind {
	case ConstraintAny:
		return true
	case ConstraintString:
		return a.Kind() == answer.KindString
	case ConstraintBool:
		return a.Kind() == answer.KindBool
	case ConstraintInt, ConstraintDouble:
		return a.Kind() == answer.KindInt || a.Kind() == answer.KindDouble
	case ConstraintStrings:
		s, ok := a.Str()
		if !ok {
			return false
		}
		for _, v := range c.Values {
			if v == s {
				return true
			}
		}
		return false
	}
	return false
}

// CompatibleWith reports whether two constrained questions may be compared
// to each other.
func (c Constraint) CompatibleWith(other Constraint) bool {
	if c.Kind == ConstraintAny || other.Kind == ConstraintAny {
		return true
	}
	return normalizeKind(c.Kind) == normalizeKind(other.Kind)
}

func normalizeKind(k ConstraintKind) ConstraintKind {
	switch k {
	case ConstraintStrings:
		return ConstraintString
	case ConstraintDouble:
		return ConstraintInt
	}
	return k
}

// UnmarshalJSON accepts either an array of strings (an enumeration) or
// one of the literal names "string", "bool", "int", "double", "any".
func (c *Constraint) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err == nil {
		*c = Constraint{Kind: ConstraintStrings, Values: values}
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("constraint must be a string or an array of strings")
	}
	switch name {
	case "string":
		*c = Constraint{Kind: ConstraintString}
	case "bool":
		*c = Constraint{Kind: ConstraintBool}
	case "int":
		*c = Constraint{Kind: ConstraintInt}
	case "double":
		*c = Constraint{Kind: ConstraintDouble}
	case "any":
		*c = Constraint{Kind: ConstraintAny}
	default:
		return fmt.Errorf("unknown constraint %q", name)
	}
	return nil
}

// Spec declares the questions a rule file may reference: LHS constrains
// questions consulted by predicates, RHS constrains questions rules
// answer.
type Spec struct {
	LHS map[engine.Question]Constraint `json:"lhs"`
	RHS map[engine.Question]Constraint `json:"rhs"`
}

// DecodeSpec parses a linter specification file.
func DecodeSpec(data []byte) (*Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode lint spec: %w", err)
	}
	if s.LHS == nil {
		s.LHS = make(map[engine.Question]Constraint)
	}
	if s.RHS == nil {
		s.RHS = make(map[engine.Question]Constraint)
	}
	return &s, nil
}
