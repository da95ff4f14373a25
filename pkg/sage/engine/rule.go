package engine

import (
	"fmt"

	"github.com/cognicore/sage/pkg/sage/answer"
)

// Rule is a conditional implication: when Predicate holds, Question is
// answered with Answer (or with the result of the named Assignment).
// An empty Assignment means the literal answer fires.
type Rule struct {
	Priority   int
	Predicate  Predicate
	Question   Question
	Answer     answer.Answer
	Assignment string
}

// Equal reports structural equality of two rules.
func (r Rule) Equal(other Rule) bool {
	return r.Priority == other.Priority &&
		r.Question == other.Question &&
		r.Assignment == other.Assignment &&
		r.Answer.Same(other.Answer) &&
		r.Predicate.Equal(other.Predicate)
}

func (r Rule) String() string {
	s := fmt.Sprintf("%d: %v => %s = %v", r.Priority, r.Predicate, r.Question, r.Answer)
	if r.Assignment != "" {
		s += fmt.Sprintf(" (%s)", r.Assignment)
	}
	return s
}
