package engine

import (
	"encoding/json"
	"fmt"

	"github.com/cognicore/sage/pkg/sage/answer"
)

// Codec encodes and decodes rules and predicates in the canonical JSON
// form. Decoding extension-typed answers requires the registry; encoding
// does not.
type Codec struct {
	Registry *answer.Registry
}

type predicateWire struct {
	Type     string            `json:"type"`
	Operand  json.RawMessage   `json:"operand,omitempty"`
	Operands []json.RawMessage `json:"operands,omitempty"`
	LHS      json.RawMessage   `json:"lhs,omitempty"`
	Op       string            `json:"op,omitempty"`
	RHS      json.RawMessage   `json:"rhs,omitempty"`
}

type exprWire struct {
	Question  *string         `json:"question,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Predicate json.RawMessage `json:"predicate,omitempty"`
}

type ruleWire struct {
	Priority   int             `json:"priority"`
	Predicate  json.RawMessage `json:"predicate"`
	Question   string          `json:"question"`
	Answer     json.RawMessage `json:"answer"`
	Assignment string          `json:"assignment,omitempty"`
}

// EncodePredicate renders a predicate in canonical form.
func EncodePredicate(p Predicate) ([]byte, error) {
	var w predicateWire
	switch v := p.(type) {
	case False:
		w.Type = "false"
	case True:
		w.Type = "true"
	case Not:
		w.Type = "not"
		operand, err := EncodePredicate(v.Operand)
		if err != nil {
			return nil, err
		}
		w.Operand = operand
	case And, Or:
		var operands []Predicate
		if a, ok := v.(And); ok {
			w.Type = "and"
			operands = a.Operands
		} else {
			w.Type = "or"
			operands = v.(Or).Operands
		}
		w.Operands = make([]json.RawMessage, len(operands))
		for i, op := range operands {
			enc, err := EncodePredicate(op)
			if err != nil {
				return nil, err
			}
			w.Operands[i] = enc
		}
	case Comparison:
		w.Type = "comparison"
		lhs, err := encodeExpr(v.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := encodeExpr(v.RHS)
		if err != nil {
			return nil, err
		}
		w.LHS, w.Op, w.RHS = lhs, v.Op.String(), rhs
	default:
		return nil, fmt.Errorf("encode predicate: unknown variant %T", p)
	}
	return json.Marshal(w)
}

func encodeExpr(e Expr) ([]byte, error) {
	var w exprWire
	switch v := e.(type) {
	case QuestionExpr:
		q := string(v.Question)
		w.Question = &q
	case AnswerExpr:
		enc, err := json.Marshal(v.Answer)
		if err != nil {
			return nil, err
		}
		w.Answer = enc
	case PredicateExpr:
		enc, err := EncodePredicate(v.Predicate)
		if err != nil {
			return nil, err
		}
		w.Predicate = enc
	default:
		return nil, fmt.Errorf("encode expression: unknown variant %T", e)
	}
	return json.Marshal(w)
}

// EncodeRule renders a rule in canonical form.
func EncodeRule(r Rule) ([]byte, error) {
	pred, err := EncodePredicate(r.Predicate)
	if err != nil {
		return nil, err
	}
	ans, err := json.Marshal(r.Answer)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ruleWire{
		Priority:   r.Priority,
		Predicate:  pred,
		Question:   string(r.Question),
		Answer:     ans,
		Assignment: r.Assignment,
	})
}

// EncodeRules renders a canonical rule file: a JSON array of rules.
func EncodeRules(rules []Rule) ([]byte, error) {
	encoded := make([]json.RawMessage, len(rules))
	for i, r := range rules {
		enc, err := EncodeRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		encoded[i] = enc
	}
	return json.MarshalIndent(encoded, "", "  ")
}

// DecodePredicate parses a canonical predicate encoding.
func (c Codec) DecodePredicate(data []byte) (Predicate, error) {
	var w predicateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode predicate: %w", err)
	}
	switch w.Type {
	case "false":
		return False{}, nil
	case "true":
		return True{}, nil
	case "not":
		if w.Operand == nil {
			return nil, fmt.Errorf("decode predicate: not without operand")
		}
		operand, err := c.DecodePredicate(w.Operand)
		if err != nil {
			return nil, err
		}
		return Not{Operand: operand}, nil
	case "and", "or":
		operands := make([]Predicate, len(w.Operands))
		for i, raw := range w.Operands {
			op, err := c.DecodePredicate(raw)
			if err != nil {
				return nil, err
			}
			operands[i] = op
		}
		if w.Type == "and" {
			return And{Operands: operands}, nil
		}
		return Or{Operands: operands}, nil
	case "comparison":
		lhs, err := c.decodeExpr(w.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := c.decodeExpr(w.RHS)
		if err != nil {
			return nil, err
		}
		op, err := ParseOp(w.Op)
		if err != nil {
			return nil, fmt.Errorf("decode predicate: %w", err)
		}
		return Comparison{LHS: lhs, Op: op, RHS: rhs}, nil
	}
	return nil, fmt.Errorf("decode predicate: unknown type %q", w.Type)
}

func (c Codec) decodeExpr(data []byte) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("decode expression: missing operand")
	}
	var w exprWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode expression: %w", err)
	}
	switch {
	case w.Question != nil:
		return QuestionExpr{Question: Question(*w.Question)}, nil
	case w.Answer != nil:
		a, err := answer.Decode(w.Answer, c.Registry)
		if err != nil {
			return nil, err
		}
		return AnswerExpr{Answer: a}, nil
	case w.Predicate != nil:
		p, err := c.DecodePredicate(w.Predicate)
		if err != nil {
			return nil, err
		}
		return PredicateExpr{Predicate: p}, nil
	}
	return nil, fmt.Errorf("decode expression: no recognized operand key")
}

// DecodeRule parses a canonical rule encoding.
func (c Codec) DecodeRule(data []byte) (Rule, error) {
	var w ruleWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Rule{}, fmt.Errorf("decode rule: %w", err)
	}
	if w.Question == "" {
		return Rule{}, fmt.Errorf("decode rule: empty question")
	}
	pred, err := c.DecodePredicate(w.Predicate)
	if err != nil {
		return Rule{}, err
	}
	ans, err := answer.Decode(w.Answer, c.Registry)
	if err != nil {
		return Rule{}, err
	}
	return Rule{
		Priority:   w.Priority,
		Predicate:  pred,
		Question:   Question(w.Question),
		Answer:     ans,
		Assignment: w.Assignment,
	}, nil
}

// DecodeRules parses a canonical rule file.
func (c Codec) DecodeRules(data []byte) ([]Rule, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	rules := make([]Rule, len(raw))
	for i, r := range raw {
		rule, err := c.DecodeRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules[i] = rule
	}
	return rules, nil
}
