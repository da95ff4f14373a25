// Package sage is a forward-chaining inference rule engine: rules map
// predicates over questions to typed answers, a Brain selects among
// matching rules by priority and specificity, and a Facts store caches
// inferred answers with dependency-driven invalidation.
package sage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cognicore/sage/pkg/sage/answer"
	"github.com/cognicore/sage/pkg/sage/engine"
	"github.com/cognicore/sage/pkg/sage/lint"
	"github.com/cognicore/sage/pkg/sage/rulefile"
	"github.com/cognicore/sage/pkg/sage/store"
)

// Engine bundles an extension-type registry, a brain and a fact store.
type Engine struct {
	registry *answer.Registry
	brain    *engine.Brain
	facts    *engine.Facts
}

// Options configures an Engine.
type Options struct {
	Strategy     engine.Strategy
	CacheAnswers bool
	Registry     *answer.Registry
}

// New creates an Engine. A nil Registry gets a fresh empty one.
func New(opts Options) *Engine {
	reg := opts.Registry
	if reg == nil {
		reg = answer.NewRegistry()
	}
	brain := engine.NewBrain(opts.Strategy)
	return &Engine{
		registry: reg,
		brain:    brain,
		facts:    engine.NewFacts(brain, opts.CacheAnswers),
	}
}

// Registry returns the extension-type registry.
func (e *Engine) Registry() *answer.Registry { return e.registry }

// Brain returns the underlying rule index.
func (e *Engine) Brain() *engine.Brain { return e.brain }

// Facts returns the underlying fact store.
func (e *Engine) Facts() *engine.Facts { return e.facts }

// LoadCanonical adds rules from a canonical JSON rule file.
func (e *Engine) LoadCanonical(data []byte) error {
	codec := engine.Codec{Registry: e.registry}
	rules, err := codec.DecodeRules(data)
	if err != nil {
		return err
	}
	e.brain.Add(rules...)
	return nil
}

// LoadRuleFile parses a human rule file, optionally lints it against a
// specification, and adds the rules. Parse and lint diagnostics are
// joined into a single error.
func (e *Engine) LoadRuleFile(src string, spec *lint.Spec) error {
	parsed, parseErrs := rulefile.Parse(src)
	if len(parseErrs) > 0 {
		errs := make([]error, len(parseErrs))
		for i, pe := range parseErrs {
			errs[i] = pe
		}
		return errors.Join(errs...)
	}
	if spec != nil {
		if issues := lint.Check(parsed, spec); len(issues) > 0 {
			errs := make([]error, len(issues))
			for i, issue := range issues {
				errs[i] = fmt.Errorf("%s", issue)
			}
			return errors.Join(errs...)
		}
	}
	rules := make([]engine.Rule, len(parsed))
	for i, p := range parsed {
		rules[i] = p.Rule
	}
	e.brain.Add(rules...)
	return nil
}

// LoadRuleSet fetches a named rule set from a store and adds it.
func (e *Engine) LoadRuleSet(ctx context.Context, st store.Store, name string) error {
	set, err := st.GetRuleSetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("load rule set %q: %w", name, err)
	}
	e.brain.Add(set.Rules...)
	return nil
}

// Know writes a known fact.
func (e *Engine) Know(q engine.Question, a answer.Answer) { e.facts.Know(q, a) }

// Forget removes a known fact.
func (e *Engine) Forget(q engine.Question) { e.facts.Forget(q) }

// Ask answers a question from known facts and rules.
func (e *Engine) Ask(q engine.Question) (engine.Derivation, error) {
	return e.facts.Ask(q)
}
