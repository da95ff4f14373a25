// Package engine implements the inference core: the predicate evaluator,
// the rule index (Brain), the fact store with dependency-driven cache
// invalidation (Facts), and the canonical rule serialization.
//
// The engine is single-threaded. A Brain may back several Facts
// instances, but all rule and assignment registration must complete
// before the first Ask, and callers needing concurrent access must
// provide their own mutual exclusion. Rules whose predicates read their
// own question recurse without bound; avoiding such cycles is the
// client's responsibility.
package engine

import "sort"

// Question identifies a fact slot. Equality is identifier equality.
type Question string

// QuestionSet is a set of questions, used for dependency tracking.
type QuestionSet map[Question]struct{}

// NewQuestionSet builds a set from the given questions.
func NewQuestionSet(qs ...Question) QuestionSet {
	s := make(QuestionSet, len(qs))
	for _, q := range qs {
		s[q] = struct{}{}
	}
	return s
}

// Add inserts a question into the set.
func (s QuestionSet) Add(q Question) { s[q] = struct{}{} }

// Union inserts every question of other into the set.
func (s QuestionSet) Union(other QuestionSet) {
	for q := range other {
		s[q] = struct{}{}
	}
}

// Contains reports set membership.
func (s QuestionSet) Contains(q Question) bool {
	_, ok := s[q]
	return ok
}

// Clone returns an independent copy of the set.
func (s QuestionSet) Clone() QuestionSet {
	c := make(QuestionSet, len(s))
	for q := range s {
		c[q] = struct{}{}
	}
	return c
}

// Slice returns the questions in sorted order.
func (s QuestionSet) Slice() []Question {
	out := make([]Question, 0, len(s))
	for q := range s {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal reports whether two sets hold the same questions.
func (s QuestionSet) Equal(other QuestionSet) bool {
	if len(s) != len(other) {
		return false
	}
	for q := range s {
		if !other.Contains(q) {
			return false
		}
	}
	return true
}
