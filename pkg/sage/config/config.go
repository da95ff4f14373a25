// Package config loads engine configuration and fact files from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/sage/pkg/sage/answer"
	"github.com/cognicore/sage/pkg/sage/engine"
	"github.com/cognicore/sage/pkg/sage/internalerr"
)

// Engine is the YAML configuration of an inference engine.
type Engine struct {
	Strategy     string `yaml:"strategy"`      // "fail" (default) or "undefined"
	CacheAnswers bool   `yaml:"cache_answers"`
	RulesPath    string `yaml:"rules"`
	LintSpecPath string `yaml:"lint_spec"`
	FactsPath    string `yaml:"facts"`
}

// LoadEngine loads an engine configuration from a YAML file.
func LoadEngine(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Engine
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// StrategyValue resolves the configured ambiguity strategy.
func (e *Engine) StrategyValue() (engine.Strategy, error) {
	switch e.Strategy {
	case "", "fail":
		return engine.StrategyFail, nil
	case "undefined":
		return engine.StrategyUndefined, nil
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", internalerr.ErrInvalidConfig, e.Strategy)
}

// LoadFacts loads a YAML facts file: a flat map from question to scalar.
// Booleans, integers, floats and strings map to the corresponding answer
// variants.
func LoadFacts(path string) (map[engine.Question]answer.Answer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	facts := make(map[engine.Question]answer.Answer, len(raw))
	for q, v := range raw {
		a, err := scalarAnswer(v)
		if err != nil {
			return nil, fmt.Errorf("fact %q: %w", q, err)
		}
		facts[engine.Question(q)] = a
	}
	return facts, nil
}

func scalarAnswer(v any) (answer.Answer, error) {
	switch t := v.(type) {
	case bool:
		return answer.Bool(t), nil
	case int:
		return answer.Int(int64(t)), nil
	case int64:
		return answer.Int(t), nil
	case float64:
		return answer.Double(t), nil
	case string:
		return answer.String(t), nil
	}
	return answer.Answer{}, fmt.Errorf("%w: unsupported fact value %T", internalerr.ErrInvalidConfig, v)
}
