// Package memstore is an in-memory implementation of store.Store for
// tests.
package memstore

import (
	"context"
	"crypto/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/sage/pkg/sage/engine"
	"github.com/cognicore/sage/pkg/sage/internalerr"
	"github.com/cognicore/sage/pkg/sage/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu      sync.RWMutex
	entropy *ulid.MonotonicEntropy
	sets    map[string]store.RuleSet
	byName  map[string]string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		entropy: ulid.Monotonic(rand.Reader, 0),
		sets:    make(map[string]store.RuleSet),
		byName:  make(map[string]string),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRuleSet implements store.Store.
func (s *Store) SaveRuleSet(ctx context.Context, name string, rules []engine.Rule) (store.RuleSet, error) {
	if name == "" {
		return store.RuleSet{}, internalerr.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byName[name]; ok {
		delete(s.sets, old)
	}

	set := store.RuleSet{
		ID:        ulid.MustNew(ulid.Now(), s.entropy).String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Rules:     append([]engine.Rule(nil), rules...),
	}
	s.sets[set.ID] = set
	s.byName[name] = set.ID
	return set, nil
}

// GetRuleSet implements store.Store.
func (s *Store) GetRuleSet(ctx context.Context, id string) (store.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[id]
	if !ok {
		return store.RuleSet{}, internalerr.ErrNotFound
	}
	return copySet(set), nil
}

// GetRuleSetByName implements store.Store.
func (s *Store) GetRuleSetByName(ctx context.Context, name string) (store.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		return store.RuleSet{}, internalerr.ErrNotFound
	}
	return copySet(s.sets[id]), nil
}

// ListRuleSets implements store.Store.
func (s *Store) ListRuleSets(ctx context.Context) ([]store.RuleSetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]store.RuleSetInfo, 0, len(s.sets))
	for _, set := range s.sets {
		infos = append(infos, store.RuleSetInfo{
			ID:        set.ID,
			Name:      set.Name,
			CreatedAt: set.CreatedAt,
			RuleCount: len(set.Rules),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// DeleteRuleSet implements store.Store.
func (s *Store) DeleteRuleSet(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[id]
	if !ok {
		return internalerr.ErrNotFound
	}
	delete(s.sets, id)
	delete(s.byName, set.Name)
	return nil
}

func copySet(set store.RuleSet) store.RuleSet {
	set.Rules = append([]engine.Rule(nil), set.Rules...)
	return set
}
