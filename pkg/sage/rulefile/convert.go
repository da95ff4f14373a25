package rulefile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cognicore/sage/pkg/sage/answer"
	"github.com/cognicore/sage/pkg/sage/engine"
)

// Conversion errors: the closed set of rejects raised while turning the
// grammar AST into an engine predicate.
var (
	ErrCompoundHasNoSubpredicates = errors.New("compound predicate has no subpredicates")
	ErrInputWasNotRecognized      = errors.New("predicate input was not recognized")
	ErrUnsupportedOperator        = errors.New("unsupported comparison operator")
	ErrUnsupportedExpression      = errors.New("unsupported expression")
	ErrUnsupportedConstantValue   = errors.New("unsupported constant value")
)

// ParsePredicate parses a predicate-format string into an engine
// predicate.
func ParsePredicate(src string) (engine.Predicate, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, ErrInputWasNotRecognized
	}
	var ast Expression
	if err := predicateParser.ParseString("", src, &ast); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputWasNotRecognized, err)
	}
	return ast.convert()
}

func (e *Expression) convert() (engine.Predicate, error) {
	if e == nil || e.First == nil {
		return nil, ErrCompoundHasNoSubpredicates
	}
	first, err := e.First.convert()
	if err != nil {
		return nil, err
	}
	if len(e.Rest) == 0 {
		return first, nil
	}
	operands := []engine.Predicate{first}
	for _, t := range e.Rest {
		p, err := t.convert()
		if err != nil {
			return nil, err
		}
		operands = append(operands, p)
	}
	return engine.Or{Operands: operands}, nil
}

func (t *AndTerm) convert() (engine.Predicate, error) {
	if t == nil || t.First == nil {
		return nil, ErrCompoundHasNoSubpredicates
	}
	first, err := t.First.convert()
	if err != nil {
		return nil, err
	}
	if len(t.Rest) == 0 {
		return first, nil
	}
	operands := []engine.Predicate{first}
	for _, n := range t.Rest {
		p, err := n.convert()
		if err != nil {
			return nil, err
		}
		operands = append(operands, p)
	}
	return engine.And{Operands: operands}, nil
}

func (n *NotTerm) convert() (engine.Predicate, error) {
	if n == nil {
		return nil, ErrInputWasNotRecognized
	}
	if n.Negated != nil {
		inner, err := n.Negated.convert()
		if err != nil {
			return nil, err
		}
		return engine.Not{Operand: inner}, nil
	}
	if n.Comparison == nil {
		return nil, ErrInputWasNotRecognized
	}
	return n.Comparison.convert()
}

func (c *ComparisonTerm) convert() (engine.Predicate, error) {
	if c.LHS == nil {
		return nil, ErrInputWasNotRecognized
	}
	if c.Op == nil {
		return c.LHS.asPredicate()
	}
	op, err := c.Op.convert()
	if err != nil {
		return nil, err
	}
	lhs, err := c.LHS.asExpr()
	if err != nil {
		return nil, err
	}
	rhs, err := c.RHS.asExpr()
	if err != nil {
		return nil, err
	}
	return engine.Comparison{LHS: lhs, Op: op, RHS: rhs}, nil
}

func (o *CompareOp) convert() (engine.Op, error) {
	switch {
	case o.Lead == "=" && o.Eq:
		return engine.OpEqual, nil
	case o.Lead == "!" && o.Eq:
		return engine.OpNotEqual, nil
	case o.Lead == "<" && o.Eq:
		return engine.OpLessOrEqual, nil
	case o.Lead == "<":
		return engine.OpLess, nil
	case o.Lead == ">" && o.Eq:
		return engine.OpGreaterOrEqual, nil
	case o.Lead == ">":
		return engine.OpGreater, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperator, o.Lead)
}

// asExpr converts an operand in comparison position.
func (o *Operand) asExpr() (engine.Expr, error) {
	if o == nil {
		return nil, ErrInputWasNotRecognized
	}
	switch {
	case o.Sub != nil:
		p, err := o.Sub.convert()
		if err != nil {
			return nil, err
		}
		return engine.PredicateExpr{Predicate: p}, nil
	case o.TruePred:
		return engine.PredicateExpr{Predicate: engine.True{}}, nil
	case o.FalsePred:
		return engine.PredicateExpr{Predicate: engine.False{}}, nil
	case o.Str != nil:
		return engine.AnswerExpr{Answer: answer.String(*o.Str)}, nil
	case o.NegFloat != nil:
		return engine.AnswerExpr{Answer: answer.Double(-*o.NegFloat)}, nil
	case o.NegInt != nil:
		return engine.AnswerExpr{Answer: answer.Int(-*o.NegInt)}, nil
	case o.Float != nil:
		return engine.AnswerExpr{Answer: answer.Double(*o.Float)}, nil
	case o.Int != nil:
		return engine.AnswerExpr{Answer: answer.Int(*o.Int)}, nil
	case o.TrueLit:
		return engine.AnswerExpr{Answer: answer.Bool(true)}, nil
	case o.FalseLit:
		return engine.AnswerExpr{Answer: answer.Bool(false)}, nil
	case o.Ident != nil:
		return engine.QuestionExpr{Question: o.Ident.question()}, nil
	}
	return nil, ErrUnsupportedExpression
}

// asPredicate converts a bare operand standing alone as a predicate.
func (o *Operand) asPredicate() (engine.Predicate, error) {
	switch {
	case o.Sub != nil:
		return o.Sub.convert()
	case o.TruePred:
		return engine.True{}, nil
	case o.FalsePred:
		return engine.False{}, nil
	case o.Ident != nil:
		return nil, fmt.Errorf("%w: bare identifier %q is not a predicate", ErrUnsupportedExpression, o.Ident.question())
	case o.Str != nil, o.NegFloat != nil, o.NegInt != nil, o.Float != nil, o.Int != nil, o.TrueLit, o.FalseLit:
		return nil, fmt.Errorf("%w: constant is not a predicate", ErrUnsupportedConstantValue)
	}
	return nil, ErrUnsupportedExpression
}

func (i *Identifier) question() engine.Question {
	return engine.Question(strings.Join(i.Parts, "."))
}
