package engine

import (
	"errors"

	"github.com/cognicore/sage/pkg/sage/answer"
)

// Evaluation is the outcome of running a predicate against a fact store:
// the boolean value, every question consulted along the way, and any
// ambiguous rule groups surfaced by sub-derivations.
type Evaluation struct {
	Value          bool
	Dependencies   QuestionSet
	AmbiguousRules [][]Rule
}

func newEvaluation(value bool) Evaluation {
	return Evaluation{Value: value, Dependencies: NewQuestionSet()}
}

func (e Evaluation) invert() Evaluation {
	e.Value = !e.Value
	return e
}

// absorb folds another evaluation's dependencies and ambiguity journal
// into e, leaving e.Value untouched.
func (e *Evaluation) absorb(other Evaluation) {
	e.Dependencies.Union(other.Dependencies)
	e.AmbiguousRules = append(e.AmbiguousRules, other.AmbiguousRules...)
}

// Evaluate runs a predicate against the fact store. Resolving question
// operands may recurse into the Brain and populate the store's caches.
func Evaluate(p Predicate, f *Facts) (Evaluation, error) {
	return p.eval(f)
}

func (False) eval(*Facts) (Evaluation, error) { return newEvaluation(false), nil }

func (True) eval(*Facts) (Evaluation, error) { return newEvaluation(true), nil }

func (p Not) eval(f *Facts) (Evaluation, error) {
	ev, err := p.Operand.eval(f)
	if err != nil {
		return Evaluation{}, err
	}
	return ev.invert(), nil
}

func (p And) eval(f *Facts) (Evaluation, error) {
	acc := newEvaluation(true)
	for _, op := range p.Operands {
		ev, err := op.eval(f)
		if err != nil {
			return Evaluation{}, err
		}
		acc.absorb(ev)
		if !ev.Value {
			acc.Value = false
			return acc, nil
		}
	}
	return acc, nil
}

func (p Or) eval(f *Facts) (Evaluation, error) {
	acc := newEvaluation(false)
	for _, op := range p.Operands {
		ev, err := op.eval(f)
		if err != nil {
			return Evaluation{}, err
		}
		acc.absorb(ev)
		if ev.Value {
			acc.Value = true
			return acc, nil
		}
	}
	return acc, nil
}

func (p Comparison) eval(f *Facts) (Evaluation, error) {
	switch lhs := p.LHS.(type) {
	case PredicateExpr:
		return comparePredicate(lhs.Predicate, p.Op, p.RHS, f)
	case QuestionExpr:
		return compareQuestion(lhs.Question, p.Op, p.RHS, f)
	case AnswerExpr:
		return compareLiteral(lhs.Answer, p.Op, p.RHS, f)
	}
	return Evaluation{}, ErrTypeMismatch
}

// comparePredicate handles a predicate on the left-hand side. Predicates
// compare to other predicates and to boolean-valued questions, by equality
// only; everything else is a structural reject.
func comparePredicate(lhs Predicate, op Op, rhs Expr, f *Facts) (Evaluation, error) {
	switch rhs.(type) {
	case PredicateExpr, QuestionExpr:
		if op != OpEqual && op != OpNotEqual {
			return Evaluation{}, ErrPredicatesNotComparable
		}
	default:
		return Evaluation{}, ErrTypeMismatch
	}

	lev, err := lhs.eval(f)
	if err != nil {
		return Evaluation{}, err
	}

	switch r := rhs.(type) {
	case PredicateExpr:
		rev, err := r.Predicate.eval(f)
		if err != nil {
			return Evaluation{}, err
		}
		lev.absorb(rev)
		lev.Value = applyEquality(op, lev.Value == rev.Value)
		return lev, nil
	case QuestionExpr:
		a, err := resolveQuestion(r.Question, f, &lev)
		if err != nil {
			return Evaluation{}, err
		}
		b, ok := a.Bool()
		if !ok {
			return Evaluation{}, ErrTypeMismatch
		}
		lev.Value = applyEquality(op, lev.Value == b)
		return lev, nil
	}
	return Evaluation{}, ErrTypeMismatch
}

// compareQuestion handles a question on the left-hand side.
func compareQuestion(lhs Question, op Op, rhs Expr, f *Facts) (Evaluation, error) {
	if r, ok := rhs.(PredicateExpr); ok {
		// Mirror of the predicate-vs-question case; equality is symmetric.
		return comparePredicate(r.Predicate, op, QuestionExpr{Question: lhs}, f)
	}

	ev := newEvaluation(false)
	la, err := resolveQuestion(lhs, f, &ev)
	if err != nil {
		return Evaluation{}, err
	}

	var ra answer.Answer
	switch r := rhs.(type) {
	case QuestionExpr:
		ra, err = resolveQuestion(r.Question, f, &ev)
		if err != nil {
			return Evaluation{}, err
		}
	case AnswerExpr:
		ra = r.Answer
	default:
		return Evaluation{}, ErrTypeMismatch
	}

	value, err := compareAnswers(op, la, ra)
	if err != nil {
		return Evaluation{}, err
	}
	ev.Value = value
	return ev, nil
}

// compareLiteral handles an answer literal on the left-hand side by
// swapping the operator and mirroring the question case, or comparing
// directly when both sides are literals.
func compareLiteral(lhs answer.Answer, op Op, rhs Expr, f *Facts) (Evaluation, error) {
	switch r := rhs.(type) {
	case PredicateExpr:
		return Evaluation{}, ErrTypeMismatch
	case QuestionExpr:
		ev := newEvaluation(false)
		ra, err := resolveQuestion(r.Question, f, &ev)
		if err != nil {
			return Evaluation{}, err
		}
		value, err := compareAnswers(op.swapped(), ra, lhs)
		if err != nil {
			return Evaluation{}, err
		}
		ev.Value = value
		return ev, nil
	case AnswerExpr:
		value, err := compareAnswers(op, lhs, r.Answer)
		if err != nil {
			return Evaluation{}, err
		}
		ev := newEvaluation(value)
		return ev, nil
	}
	return Evaluation{}, ErrTypeMismatch
}

// resolveQuestion asks the fact store for a question operand, recording the
// question itself and the sub-derivation's dependencies and ambiguities.
func resolveQuestion(q Question, f *Facts, ev *Evaluation) (answer.Answer, error) {
	d, err := f.Ask(q)
	if err != nil {
		return answer.Answer{}, &QuestionEvaluationError{Question: q, Err: err}
	}
	ev.Dependencies.Add(q)
	ev.Dependencies.Union(d.Dependencies)
	ev.AmbiguousRules = append(ev.AmbiguousRules, d.AmbiguousRules...)
	return d.Answer, nil
}

func applyEquality(op Op, equal bool) bool {
	if op == OpNotEqual {
		return !equal
	}
	return equal
}

// compareAnswers applies an operator to two resolved answers, translating
// the answer package's comparison errors into evaluator errors.
func compareAnswers(op Op, a, b answer.Answer) (bool, error) {
	var value bool
	var err error
	switch op {
	case OpEqual:
		value, err = answer.Equal(a, b)
	case OpNotEqual:
		value, err = answer.Equal(a, b)
		value = !value
	case OpLess:
		value, err = answer.Less(a, b)
	case OpGreater:
		value, err = answer.Less(b, a)
	case OpLessOrEqual:
		value, err = answer.Less(b, a)
		value = !value
	case OpGreaterOrEqual:
		value, err = answer.Less(a, b)
		value = !value
	default:
		return false, ErrTypeMismatch
	}
	if err != nil {
		if errors.Is(err, answer.ErrNotOrdered) {
			return false, ErrPredicatesNotComparable
		}
		return false, ErrTypeMismatch
	}
	return value, nil
}
