// Package lint provides static analysis for rule files. It flags the
// structural comparisons the evaluator would reject at runtime and, when a
// specification is supplied, checks questions and answers against their
// declared constraints without executing any rule.
package lint

import (
	"fmt"
	"sort"

	"github.com/cognicore/sage/pkg/sage/answer"
	"github.com/cognicore/sage/pkg/sage/engine"
	"github.com/cognicore/sage/pkg/sage/rulefile"
)

// Issue is a problem found in a rule file, tied to its source line.
type Issue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// Check lints a parsed rule set. The spec may be nil, in which case only
// the spec-independent checks run. Issues come back sorted by line, then
// message.
func Check(rules []rulefile.ParsedRule, spec *Spec) []Issue {
	var issues []Issue

	issues = append(issues, checkDuplicates(rules)...)
	for _, r := range rules {
		issues = append(issues, checkPredicate(r.Line, r.Rule.Predicate)...)
	}
	if spec != nil {
		issues = append(issues, checkSpec(rules, spec)...)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Message < issues[j].Message
	})
	return issues
}

// checkDuplicates flags source lines that appear more than once.
func checkDuplicates(rules []rulefile.ParsedRule) []Issue {
	var issues []Issue
	seen := make(map[string]int)
	for _, r := range rules {
		if first, ok := seen[r.Source]; ok {
			issues = append(issues, Issue{
				Line:    r.Line,
				Message: fmt.Sprintf("duplicate of line %d: %s", first, r.Source),
			})
			continue
		}
		seen[r.Source] = r.Line
	}
	return issues
}

// checkPredicate flags comparisons the evaluator rejects structurally:
// predicates ordered against predicates or questions, and predicates
// compared to answer literals.
func checkPredicate(line int, p engine.Predicate) []Issue {
	var issues []Issue
	switch v := p.(type) {
	case engine.Not:
		issues = append(issues, checkPredicate(line, v.Operand)...)
	case engine.And:
		for _, op := range v.Operands {
			issues = append(issues, checkPredicate(line, op)...)
		}
	case engine.Or:
		for _, op := range v.Operands {
			issues = append(issues, checkPredicate(line, op)...)
		}
	case engine.Comparison:
		issues = append(issues, checkComparison(line, v)...)
	}
	return issues
}

func checkComparison(line int, c engine.Comparison) []Issue {
	var issues []Issue

	lp, lhsIsPredicate := c.LHS.(engine.PredicateExpr)
	rp, rhsIsPredicate := c.RHS.(engine.PredicateExpr)
	_, lhsIsAnswer := c.LHS.(engine.AnswerExpr)
	_, rhsIsAnswer := c.RHS.(engine.AnswerExpr)

	ordering := c.Op != engine.OpEqual && c.Op != engine.OpNotEqual

	if (lhsIsPredicate || rhsIsPredicate) && ordering {
		issues = append(issues, Issue{Line: line, Message: "predicates cannot be ordered"})
	}
	if (lhsIsPredicate && rhsIsAnswer) || (lhsIsAnswer && rhsIsPredicate) {
		issues = append(issues, Issue{Line: line, Message: "predicate compared to answer literal"})
	}

	if lhsIsPredicate {
		issues = append(issues, checkPredicate(line, lp.Predicate)...)
	}
	if rhsIsPredicate {
		issues = append(issues, checkPredicate(line, rp.Predicate)...)
	}
	return issues
}

// checkSpec runs the specification-dependent checks.
func checkSpec(rules []rulefile.ParsedRule, spec *Spec) []Issue {
	var issues []Issue

	// Every RHS question must be declared, every RHS answer must match its
	// constraint, and for every RHS question a fallback rule must exist.
	fallback := make(map[engine.Question]bool)
	rhsSeen := make(map[engine.Question]int)
	for _, r := range rules {
		q := r.Rule.Question
		if _, ok := rhsSeen[q]; !ok {
			rhsSeen[q] = r.Line
		}
		if r.Rule.Priority == 0 {
			if _, isTrue := r.Rule.Predicate.(engine.True); isTrue {
				fallback[q] = true
			}
		}

		c, declared := spec.RHS[q]
		if !declared {
			issues = append(issues, Issue{
				Line:    r.Line,
				Message: fmt.Sprintf("question %q is not declared in the specification", q),
			})
			continue
		}
		// Assignment answers are computed at fire time; the literal payload
		// carries the assignment's argument, not the final answer.
		if r.Rule.Assignment == "" && !c.Allows(r.Rule.Answer) {
			issues = append(issues, Issue{
				Line:    r.Line,
				Message: fmt.Sprintf("answer %v does not satisfy the %s constraint on %q", r.Rule.Answer, c, q),
			})
		}
	}
	for q, line := range rhsSeen {
		if !fallback[q] {
			issues = append(issues, Issue{
				Line:    line,
				Message: fmt.Sprintf("question %q has no fallback rule (priority 0, TRUEPREDICATE)", q),
			})
		}
	}

	for _, r := range rules {
		issues = append(issues, checkOperandTypes(r.Line, r.Rule.Predicate, spec)...)
	}
	return issues
}

// checkOperandTypes verifies LHS comparisons against declared constraints.
func checkOperandTypes(line int, p engine.Predicate, spec *Spec) []Issue {
	var issues []Issue
	switch v := p.(type) {
	case engine.Not:
		issues = append(issues, checkOperandTypes(line, v.Operand, spec)...)
	case engine.And:
		for _, op := range v.Operands {
			issues = append(issues, checkOperandTypes(line, op, spec)...)
		}
	case engine.Or:
		for _, op := range v.Operands {
			issues = append(issues, checkOperandTypes(line, op, spec)...)
		}
	case engine.Comparison:
		issues = append(issues, checkComparisonTypes(line, v, spec)...)
		if pe, ok := v.LHS.(engine.PredicateExpr); ok {
			issues = append(issues, checkOperandTypes(line, pe.Predicate, spec)...)
		}
		if pe, ok := v.RHS.(engine.PredicateExpr); ok {
			issues = append(issues, checkOperandTypes(line, pe.Predicate, spec)...)
		}
	}
	return issues
}

func checkComparisonTypes(line int, c engine.Comparison, spec *Spec) []Issue {
	var issues []Issue

	lq, lhsIsQuestion := c.LHS.(engine.QuestionExpr)
	rq, rhsIsQuestion := c.RHS.(engine.QuestionExpr)
	la, lhsIsAnswer := c.LHS.(engine.AnswerExpr)
	ra, rhsIsAnswer := c.RHS.(engine.AnswerExpr)
	_, lhsIsPredicate := c.LHS.(engine.PredicateExpr)
	_, rhsIsPredicate := c.RHS.(engine.PredicateExpr)

	switch {
	case lhsIsQuestion && rhsIsAnswer:
		issues = append(issues, checkLiteral(line, lq.Question, ra.Answer, spec)...)
	case lhsIsAnswer && rhsIsQuestion:
		issues = append(issues, checkLiteral(line, rq.Question, la.Answer, spec)...)
	case lhsIsQuestion && rhsIsQuestion:
		lc, lok := spec.LHS[lq.Question]
		rc, rok := spec.LHS[rq.Question]
		if lok && rok && !lc.CompatibleWith(rc) {
			issues = append(issues, Issue{
				Line:    line,
				Message: fmt.Sprintf("questions %q (%s) and %q (%s) have incompatible types", lq.Question, lc, rq.Question, rc),
			})
		}
	case lhsIsPredicate && rhsIsQuestion:
		issues = append(issues, checkBoolQuestion(line, rq.Question, spec)...)
	case lhsIsQuestion && rhsIsPredicate:
		issues = append(issues, checkBoolQuestion(line, lq.Question, spec)...)
	}
	return issues
}

// checkLiteral verifies a question-vs-literal comparison against the
// question's declared constraint.
func checkLiteral(line int, q engine.Question, a answer.Answer, spec *Spec) []Issue {
	c, ok := spec.LHS[q]
	if !ok {
		return nil
	}
	if !c.Allows(a) {
		return []Issue{{
			Line:    line,
			Message: fmt.Sprintf("question %q (%s) compared to incompatible literal %v", q, c, a),
		}}
	}
	return nil
}

// checkBoolQuestion verifies a question compared against a predicate: the
// question must be declared boolean.
func checkBoolQuestion(line int, q engine.Question, spec *Spec) []Issue {
	c, ok := spec.LHS[q]
	if !ok {
		return nil
	}
	if c.Kind != ConstraintBool && c.Kind != ConstraintAny {
		return []Issue{{
			Line:    line,
			Message: fmt.Sprintf("question %q (%s) compared to a predicate; only bool questions may be", q, c),
		}}
	}
	return nil
}
