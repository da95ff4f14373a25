package engine

import "sort"

// Strategy governs how multiple peer candidates are resolved when a
// question is asked.
type Strategy int

const (
	// StrategyFail turns a runtime ambiguity into an AmbiguousError.
	StrategyFail Strategy = iota
	// StrategyUndefined fires the first candidate and journals the peer
	// group into the produced derivation.
	StrategyUndefined
)

// Assignment computes a rule's final answer given the fired rule, the fact
// store and the dependency set accumulated by the winning predicate.
type Assignment func(rule Rule, facts *Facts, deps QuestionSet) (Derivation, error)

// RulePair is a structurally ambiguous pair recorded at insertion.
type RulePair [2]Rule

// indexedRule carries the predicate size computed once at insertion.
type indexedRule struct {
	rule Rule
	size int
}

// Brain owns the rule index and the assignment registry. Rules are added
// in batches before any ask; the index is read-only afterwards. A Brain
// may back multiple Facts instances, each with its own caches.
type Brain struct {
	strategy    Strategy
	rules       map[Question][]indexedRule
	assignments map[string]Assignment
	ambiguous   map[Question][]RulePair
}

// NewBrain creates an empty brain with the given ambiguity strategy.
func NewBrain(strategy Strategy) *Brain {
	return &Brain{
		strategy:    strategy,
		rules:       make(map[Question][]indexedRule),
		assignments: make(map[string]Assignment),
		ambiguous:   make(map[Question][]RulePair),
	}
}

// Add indexes the rules by question. Per-question lists stay sorted
// descending by (priority, predicate size); rules tying on both are
// recorded in the structural ambiguity journal.
func (b *Brain) Add(rules ...Rule) {
	touched := NewQuestionSet()
	for _, r := range rules {
		b.rules[r.Question] = append(b.rules[r.Question], indexedRule{
			rule: r,
			size: r.Predicate.Size(),
		})
		touched.Add(r.Question)
	}
	for q := range touched {
		entries := b.rules[q]
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].rule.Priority != entries[j].rule.Priority {
				return entries[i].rule.Priority > entries[j].rule.Priority
			}
			return entries[i].size > entries[j].size
		})
		b.ambiguous[q] = journalPairs(entries)
		if len(b.ambiguous[q]) == 0 {
			delete(b.ambiguous, q)
		}
	}
}

// journalPairs collects every pair of rules sharing (priority, size).
func journalPairs(entries []indexedRule) []RulePair {
	var pairs []RulePair
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[i].rule.Priority != entries[j].rule.Priority || entries[i].size != entries[j].size {
				break
			}
			pairs = append(pairs, RulePair{entries[i].rule, entries[j].rule})
		}
	}
	return pairs
}

// AddAssignment registers a named assignment function. Registration must
// complete before any ask.
func (b *Brain) AddAssignment(name string, fn Assignment) {
	b.assignments[name] = fn
}

// AmbiguousRules returns the structural ambiguity journal for a question:
// every pair of indexed rules sharing (priority, size).
func (b *Brain) AmbiguousRules(q Question) []RulePair {
	pairs := b.ambiguous[q]
	out := make([]RulePair, len(pairs))
	copy(out, pairs)
	return out
}

// Rules returns the indexed rules for a question in selection order.
func (b *Brain) Rules(q Question) []Rule {
	entries := b.rules[q]
	out := make([]Rule, len(entries))
	for i, e := range entries {
		out[i] = e.rule
	}
	return out
}

// Questions returns every question with at least one rule, sorted.
func (b *Brain) Questions() []Question {
	s := NewQuestionSet()
	for q := range b.rules {
		s.Add(q)
	}
	return s.Slice()
}

// Ask selects and fires a rule for the question. Invoked by Facts on a
// cache miss; evaluating candidates recurses back into facts.Ask.
func (b *Brain) Ask(q Question, facts *Facts) (Derivation, error) {
	entries := b.rules[q]
	if len(entries) == 0 {
		return Derivation{}, &NoRuleFoundError{Question: q}
	}

	type candidate struct {
		rule Rule
		eval Evaluation
	}
	var candidates []candidate
	var topPriority, topSize int

	for _, e := range entries {
		if len(candidates) > 0 {
			// Rules strictly dominated by the first match are not peers.
			if e.rule.Priority < topPriority || (e.rule.Priority == topPriority && e.size < topSize) {
				break
			}
		}
		ev, err := e.rule.Predicate.eval(facts)
		if err != nil {
			return Derivation{}, &CandidateEvaluationError{Question: q, Err: err}
		}
		if !ev.Value {
			continue
		}
		if len(candidates) == 0 {
			topPriority, topSize = e.rule.Priority, e.size
		}
		candidates = append(candidates, candidate{rule: e.rule, eval: ev})
	}

	if len(candidates) == 0 {
		return Derivation{}, &NoRuleFoundError{Question: q}
	}

	winner := candidates[0]
	deps := winner.eval.Dependencies
	ambiguous := winner.eval.AmbiguousRules

	if len(candidates) > 1 {
		peers := make([]Rule, len(candidates))
		for i, c := range candidates {
			peers[i] = c.rule
		}
		if b.strategy == StrategyFail {
			return Derivation{}, &AmbiguousError{Question: q, Rules: peers}
		}
		ambiguous = append(ambiguous, peers)
	}

	return b.fire(winner.rule, facts, deps, ambiguous)
}

func (b *Brain) fire(r Rule, facts *Facts, deps QuestionSet, ambiguous [][]Rule) (Derivation, error) {
	if r.Assignment == "" {
		return Derivation{Answer: r.Answer, Dependencies: deps, AmbiguousRules: ambiguous}, nil
	}
	fn, ok := b.assignments[r.Assignment]
	if !ok {
		return Derivation{}, &AssignmentFailedError{
			Name: r.Assignment,
			Err:  &AssignmentNotFoundError{Name: r.Assignment},
		}
	}
	d, err := fn(r, facts, deps)
	if err != nil {
		return Derivation{}, &AssignmentFailedError{Name: r.Assignment, Err: err}
	}
	d.AmbiguousRules = append(d.AmbiguousRules, ambiguous...)
	return d, nil
}
