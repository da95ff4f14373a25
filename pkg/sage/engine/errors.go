package engine

import (
	"errors"
	"fmt"

	"github.com/cognicore/sage/pkg/sage/answer"
)

// Evaluator errors. Comparison operands whose variants cannot be compared
// at all fail with ErrTypeMismatch; operands that carry no total order
// (booleans, predicates, equatable extension values) fail ordering
// operators with ErrPredicatesNotComparable.
var (
	ErrTypeMismatch            = errors.New("comparison operands are not type compatible")
	ErrPredicatesNotComparable = errors.New("operands cannot be ordered")
)

// QuestionEvaluationError wraps a Facts.Ask failure that occurred while a
// comparison resolved a question operand.
type QuestionEvaluationError struct {
	Question Question
	Err      error
}

func (e *QuestionEvaluationError) Error() string {
	return fmt.Sprintf("evaluating question %q: %v", e.Question, e.Err)
}

func (e *QuestionEvaluationError) Unwrap() error { return e.Err }

// NoRuleFoundError reports a question with no matching rule.
type NoRuleFoundError struct {
	Question Question
}

func (e *NoRuleFoundError) Error() string {
	return fmt.Sprintf("no rule found for question %q", e.Question)
}

// AmbiguousError reports multiple peer rules matching a question under the
// Fail strategy.
type AmbiguousError struct {
	Question Question
	Rules    []Rule
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("question %q is ambiguous: %d rules match", e.Question, len(e.Rules))
}

// CandidateEvaluationError wraps an evaluator error raised while a
// candidate rule's predicate was being tested.
type CandidateEvaluationError struct {
	Question Question
	Err      error
}

func (e *CandidateEvaluationError) Error() string {
	return fmt.Sprintf("evaluating candidate for question %q: %v", e.Question, e.Err)
}

func (e *CandidateEvaluationError) Unwrap() error { return e.Err }

// AssignmentNotFoundError reports a rule naming an unregistered assignment.
type AssignmentNotFoundError struct {
	Name string
}

func (e *AssignmentNotFoundError) Error() string {
	return fmt.Sprintf("no assignment registered under %q", e.Name)
}

// AssignmentFailedError wraps a failure raised while firing a rule's
// assignment function.
type AssignmentFailedError struct {
	Name string
	Err  error
}

func (e *AssignmentFailedError) Error() string {
	return fmt.Sprintf("assignment %q failed: %v", e.Name, e.Err)
}

func (e *AssignmentFailedError) Unwrap() error { return e.Err }

// InvalidAnswerError is returned by assignment functions that could not
// shape their computation into an answer.
type InvalidAnswerError struct {
	Detail string
	Raw    any
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("assignment produced an invalid answer: %s (%v)", e.Detail, e.Raw)
}

// AskTypeError reports a typed ask whose derived answer holds a different
// variant.
type AskTypeError struct {
	Question Question
	Answer   answer.Answer
	Want     answer.Kind
}

func (e *AskTypeError) Error() string {
	return fmt.Sprintf("question %q answered %s, want %s", e.Question, e.Answer.Kind(), e.Want)
}
