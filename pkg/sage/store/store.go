// Package store persists named rule sets in their canonical encoding.
package store

import (
	"context"
	"time"

	"github.com/cognicore/sage/pkg/sage/engine"
)

// Store is the interface for persisting and retrieving rule sets.
type Store interface {
	Close() error

	// SaveRuleSet writes a named rule set, replacing a previous set with
	// the same name, and returns the stored set with its assigned ID.
	SaveRuleSet(ctx context.Context, name string, rules []engine.Rule) (RuleSet, error)
	GetRuleSet(ctx context.Context, id string) (RuleSet, error)
	GetRuleSetByName(ctx context.Context, name string) (RuleSet, error)
	ListRuleSets(ctx context.Context) ([]RuleSetInfo, error)
	DeleteRuleSet(ctx context.Context, id string) error
}

// RuleSet is a stored batch of rules.
type RuleSet struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Rules     []engine.Rule
}

// RuleSetInfo is a listing entry.
type RuleSetInfo struct {
	ID        string
	Name      string
	CreatedAt time.Time
	RuleCount int
}
