package engine

import "github.com/cognicore/sage/pkg/sage/answer"

// Derivation is an answer together with the set of questions consulted to
// produce it and any ambiguous rule groups encountered along the way.
type Derivation struct {
	Answer         answer.Answer
	Dependencies   QuestionSet
	AmbiguousRules [][]Rule
}

// Facts is the mutable question-to-answer store. Known facts are written
// by the client; inferred answers are produced on demand by the brain and,
// when caching is enabled, memoized together with a reverse dependency
// index that drives invalidation.
type Facts struct {
	brain        *Brain
	cacheAnswers bool
	known        map[Question]Derivation
	inferred     map[Question]Derivation
	dependents   map[Question]QuestionSet
}

// NewFacts creates a fact store backed by the given brain. With
// cacheAnswers off every ask re-derives; with it on, inferred answers are
// cached until a dependency changes.
func NewFacts(brain *Brain, cacheAnswers bool) *Facts {
	return &Facts{
		brain:        brain,
		cacheAnswers: cacheAnswers,
		known:        make(map[Question]Derivation),
		inferred:     make(map[Question]Derivation),
		dependents:   make(map[Question]QuestionSet),
	}
}

// Know writes a known answer for the question and drops every inferred
// answer that depended on it.
func (f *Facts) Know(q Question, a answer.Answer) {
	f.known[q] = Derivation{Answer: a, Dependencies: NewQuestionSet()}
	f.forgetDependents(q)
}

// Forget removes the known answer for the question, if any, and drops
// every inferred answer that depended on it.
func (f *Facts) Forget(q Question) {
	delete(f.known, q)
	f.forgetDependents(q)
}

// Set is a convenience dispatcher: a non-nil answer is known, nil forgets.
func (f *Facts) Set(q Question, a *answer.Answer) {
	if a != nil {
		f.Know(q, *a)
		return
	}
	f.Forget(q)
}

// Clear drops every inferred answer and the dependency index, keeping
// known facts.
func (f *Facts) Clear() {
	f.inferred = make(map[Question]Derivation)
	f.dependents = make(map[Question]QuestionSet)
}

// Known returns the known answer for a question, if any.
func (f *Facts) Known(q Question) (Derivation, bool) {
	d, ok := f.known[q]
	return d, ok
}

// forgetDependents removes the inferred answers directly depending on q.
// Indirect dependents keep stale index entries pointing at removed
// inferred answers; those entries are harmless and are cleared the next
// time their own dependencies are written.
func (f *Facts) forgetDependents(q Question) {
	for dep := range f.dependents[q] {
		delete(f.inferred, dep)
	}
	delete(f.dependents, q)
}

// Ask answers a question: known facts win, then the inferred cache, then
// the brain derives an answer which is cached when caching is enabled.
func (f *Facts) Ask(q Question) (Derivation, error) {
	if d, ok := f.known[q]; ok {
		return d, nil
	}
	if f.cacheAnswers {
		if d, ok := f.inferred[q]; ok {
			return d, nil
		}
	}
	if f.brain == nil {
		return Derivation{}, &NoRuleFoundError{Question: q}
	}
	d, err := f.brain.Ask(q, f)
	if err != nil {
		return Derivation{}, err
	}
	if f.cacheAnswers {
		f.inferred[q] = d
		for dep := range d.Dependencies {
			set, ok := f.dependents[dep]
			if !ok {
				set = NewQuestionSet()
				f.dependents[dep] = set
			}
			set.Add(q)
		}
	}
	return d, nil
}

// AskBool asks and requires a boolean answer.
func (f *Facts) AskBool(q Question) (bool, error) {
	d, err := f.Ask(q)
	if err != nil {
		return false, err
	}
	v, ok := d.Answer.Bool()
	if !ok {
		return false, &AskTypeError{Question: q, Answer: d.Answer, Want: answer.KindBool}
	}
	return v, nil
}

// AskInt asks and requires an integer answer.
func (f *Facts) AskInt(q Question) (int64, error) {
	d, err := f.Ask(q)
	if err != nil {
		return 0, err
	}
	v, ok := d.Answer.Int()
	if !ok {
		return 0, &AskTypeError{Question: q, Answer: d.Answer, Want: answer.KindInt}
	}
	return v, nil
}

// AskDouble asks and requires a floating-point answer.
func (f *Facts) AskDouble(q Question) (float64, error) {
	d, err := f.Ask(q)
	if err != nil {
		return 0, err
	}
	v, ok := d.Answer.Double()
	if !ok {
		return 0, &AskTypeError{Question: q, Answer: d.Answer, Want: answer.KindDouble}
	}
	return v, nil
}

// AskString asks and requires a string answer.
func (f *Facts) AskString(q Question) (string, error) {
	d, err := f.Ask(q)
	if err != nil {
		return "", err
	}
	v, ok := d.Answer.Str()
	if !ok {
		return "", &AskTypeError{Question: q, Answer: d.Answer, Want: answer.KindString}
	}
	return v, nil
}

// AskExtension asks and requires an extension answer of the given
// registered type name.
func (f *Facts) AskExtension(typeName string, q Question) (answer.Equatable, error) {
	d, err := f.Ask(q)
	if err != nil {
		return nil, err
	}
	ext, ok := d.Answer.Extension()
	if !ok || ext.TypeName() != typeName {
		want := answer.KindEquatable
		if d.Answer.Kind() == answer.KindComparable {
			want = answer.KindComparable
		}
		return nil, &AskTypeError{Question: q, Answer: d.Answer, Want: want}
	}
	return ext, nil
}
