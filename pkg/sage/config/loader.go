package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cognicore/sage/pkg/sage"
	"github.com/cognicore/sage/pkg/sage/answer"
	"github.com/cognicore/sage/pkg/sage/lint"
)

// Loader assembles a ready-to-ask engine from a configuration file.
type Loader struct {
	Path     string
	Registry *answer.Registry
}

// Load reads the configuration, builds the engine, loads its rules
// (canonical JSON for .json files, the human rule format otherwise,
// linted when a spec is configured) and applies the facts file.
func (l *Loader) Load() (*sage.Engine, error) {
	cfg, err := LoadEngine(l.Path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	strategy, err := cfg.StrategyValue()
	if err != nil {
		return nil, err
	}

	eng := sage.New(sage.Options{
		Strategy:     strategy,
		CacheAnswers: cfg.CacheAnswers,
		Registry:     l.Registry,
	})

	if cfg.RulesPath != "" {
		data, err := os.ReadFile(cfg.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		if filepath.Ext(cfg.RulesPath) == ".json" {
			if err := eng.LoadCanonical(data); err != nil {
				return nil, fmt.Errorf("load rules: %w", err)
			}
		} else {
			var spec *lint.Spec
			if cfg.LintSpecPath != "" {
				specData, err := os.ReadFile(cfg.LintSpecPath)
				if err != nil {
					return nil, fmt.Errorf("load lint spec: %w", err)
				}
				if spec, err = lint.DecodeSpec(specData); err != nil {
					return nil, err
				}
			}
			if err := eng.LoadRuleFile(string(data), spec); err != nil {
				return nil, fmt.Errorf("load rules: %w", err)
			}
		}
	}

	if cfg.FactsPath != "" {
		facts, err := LoadFacts(cfg.FactsPath)
		if err != nil {
			return nil, fmt.Errorf("load facts: %w", err)
		}
		for q, a := range facts {
			eng.Know(q, a)
		}
	}

	return eng, nil
}
