package engine

import (
	"fmt"
	"strings"

	"github.com/cognicore/sage/pkg/sage/answer"
)

// Op is a comparison operator between two expressions.
type Op int

const (
	OpEqual Op = iota
	OpNotEqual
	OpLess
	OpGreater
	OpLessOrEqual
	OpGreaterOrEqual
)

var opNames = map[Op]string{
	OpEqual:          "isEqualTo",
	OpNotEqual:       "isNotEqualTo",
	OpLess:           "isLessThan",
	OpGreater:        "isGreaterThan",
	OpLessOrEqual:    "isLessThanOrEqualTo",
	OpGreaterOrEqual: "isGreaterThanOrEqualTo",
}

// String returns the canonical wire name of the operator.
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// ParseOp resolves a canonical operator name.
func ParseOp(name string) (Op, error) {
	for op, n := range opNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown comparison operator %q", name)
}

// swapped returns the operator with its operands exchanged: a op b holds
// iff b op.swapped() a holds.
func (op Op) swapped() Op {
	switch op {
	case OpLess:
		return OpGreater
	case OpGreater:
		return OpLess
	case OpLessOrEqual:
		return OpGreaterOrEqual
	case OpGreaterOrEqual:
		return OpLessOrEqual
	}
	return op
}

// Predicate is the boolean condition of a rule. Implementations are the
// closed set False, True, Not, And, Or and Comparison.
type Predicate interface {
	// Size is the structural specificity measure used to break priority
	// ties between rules.
	Size() int
	// Equal reports structural equality.
	Equal(other Predicate) bool

	eval(f *Facts) (Evaluation, error)
}

// Expr is a comparison operand: a question, an answer literal, or a nested
// predicate.
type Expr interface {
	// Equal reports structural equality.
	Equal(other Expr) bool

	exprNode()
}

// False never matches.
type False struct{}

// True always matches.
type True struct{}

// Not inverts its operand.
type Not struct {
	Operand Predicate
}

// And matches when every operand matches. An empty And matches.
type And struct {
	Operands []Predicate
}

// Or matches when any operand matches. An empty Or never matches.
type Or struct {
	Operands []Predicate
}

// Comparison applies an operator to two expressions.
type Comparison struct {
	LHS Expr
	Op  Op
	RHS Expr
}

// QuestionExpr resolves through the fact store at evaluation time.
type QuestionExpr struct {
	Question Question
}

// AnswerExpr is a literal operand.
type AnswerExpr struct {
	Answer answer.Answer
}

// PredicateExpr is a nested predicate operand.
type PredicateExpr struct {
	Predicate Predicate
}

func (QuestionExpr) exprNode()  {}
func (AnswerExpr) exprNode()    {}
func (PredicateExpr) exprNode() {}

// Size implements Predicate.
func (False) Size() int { return 0 }

// Size implements Predicate.
func (True) Size() int { return 0 }

// Size implements Predicate.
func (p Not) Size() int { return p.Operand.Size() }

// Size implements Predicate.
func (p And) Size() int { return len(p.Operands) }

// Size implements Predicate.
func (p Or) Size() int {
	max := 0
	for _, op := range p.Operands {
		if s := op.Size(); s > max {
			max = s
		}
	}
	return max
}

// Size implements Predicate.
func (Comparison) Size() int { return 1 }

// Equal implements Predicate.
func (False) Equal(other Predicate) bool {
	_, ok := other.(False)
	return ok
}

// Equal implements Predicate.
func (True) Equal(other Predicate) bool {
	_, ok := other.(True)
	return ok
}

// Equal implements Predicate.
func (p Not) Equal(other Predicate) bool {
	o, ok := other.(Not)
	return ok && p.Operand.Equal(o.Operand)
}

// Equal implements Predicate.
func (p And) Equal(other Predicate) bool {
	o, ok := other.(And)
	return ok && predicatesEqual(p.Operands, o.Operands)
}

// Equal implements Predicate.
func (p Or) Equal(other Predicate) bool {
	o, ok := other.(Or)
	return ok && predicatesEqual(p.Operands, o.Operands)
}

// Equal implements Predicate.
func (p Comparison) Equal(other Predicate) bool {
	o, ok := other.(Comparison)
	return ok && p.Op == o.Op && p.LHS.Equal(o.LHS) && p.RHS.Equal(o.RHS)
}

func predicatesEqual(a, b []Predicate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Equal implements Expr.
func (e QuestionExpr) Equal(other Expr) bool {
	o, ok := other.(QuestionExpr)
	return ok && e.Question == o.Question
}

// Equal implements Expr.
func (e AnswerExpr) Equal(other Expr) bool {
	o, ok := other.(AnswerExpr)
	return ok && e.Answer.Same(o.Answer)
}

// Equal implements Expr.
func (e PredicateExpr) Equal(other Expr) bool {
	o, ok := other.(PredicateExpr)
	return ok && e.Predicate.Equal(o.Predicate)
}

func (False) String() string { return "FALSEPREDICATE" }
func (True) String() string  { return "TRUEPREDICATE" }

func (p Not) String() string { return fmt.Sprintf("NOT %v", p.Operand) }

func (p And) String() string { return joinPredicates(p.Operands, " AND ") }
func (p Or) String() string  { return joinPredicates(p.Operands, " OR ") }

func joinPredicates(ps []Predicate, sep string) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("(%v)", p)
	}
	return strings.Join(parts, sep)
}

func (p Comparison) String() string {
	return fmt.Sprintf("%v %s %v", p.LHS, p.Op, p.RHS)
}

func (e QuestionExpr) String() string  { return string(e.Question) }
func (e AnswerExpr) String() string    { return e.Answer.String() }
func (e PredicateExpr) String() string { return fmt.Sprintf("(%v)", e.Predicate) }
