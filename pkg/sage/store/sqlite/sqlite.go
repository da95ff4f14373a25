// Package sqlite implements store.Store on SQLite.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/sage/pkg/sage/answer"
	"github.com/cognicore/sage/pkg/sage/engine"
	"github.com/cognicore/sage/pkg/sage/internalerr"
	"github.com/cognicore/sage/pkg/sage/store"
)

// sqliteStore implements the Store interface using SQLite. Rules are kept
// in their canonical JSON encoding, one row per rule, so the schema stays
// stable as the predicate model evolves.
type sqliteStore struct {
	db      *sql.DB
	codec   engine.Codec
	entropy *ulid.MonotonicEntropy
}

// OpenSQLite opens a SQLite database with WAL mode enabled. The registry
// decodes extension-typed answers stored in rule bodies; it may be nil
// when no extension types are used.
func OpenSQLite(ctx context.Context, path string, reg *answer.Registry) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{
		db:      db,
		codec:   engine.Codec{Registry: reg},
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS rulesets (
	id TEXT PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rules (
	ruleset_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	body TEXT NOT NULL,
	PRIMARY KEY(ruleset_id, position),
	FOREIGN KEY(ruleset_id) REFERENCES rulesets(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRuleSet implements store.Store.
func (s *sqliteStore) SaveRuleSet(ctx context.Context, name string, rules []engine.Rule) (store.RuleSet, error) {
	if name == "" {
		return store.RuleSet{}, internalerr.ErrInvalidInput
	}

	set := store.RuleSet{
		ID:        ulid.MustNew(ulid.Now(), s.entropy).String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Rules:     append([]engine.Rule(nil), rules...),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.RuleSet{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rulesets WHERE name = ?`, name); err != nil {
		return store.RuleSet{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rulesets (id, name, created_at) VALUES (?, ?, ?)`,
		set.ID, set.Name, set.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return store.RuleSet{}, err
	}

	for i, r := range set.Rules {
		body, err := engine.EncodeRule(r)
		if err != nil {
			return store.RuleSet{}, fmt.Errorf("encode rule %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rules (ruleset_id, position, body) VALUES (?, ?, ?)`,
			set.ID, i, string(body),
		); err != nil {
			return store.RuleSet{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return store.RuleSet{}, err
	}
	return set, nil
}

// GetRuleSet implements store.Store.
func (s *sqliteStore) GetRuleSet(ctx context.Context, id string) (store.RuleSet, error) {
	return s.getRuleSet(ctx, `SELECT id, name, created_at FROM rulesets WHERE id = ?`, id)
}

// GetRuleSetByName implements store.Store.
func (s *sqliteStore) GetRuleSetByName(ctx context.Context, name string) (store.RuleSet, error) {
	return s.getRuleSet(ctx, `SELECT id, name, created_at FROM rulesets WHERE name = ?`, name)
}

func (s *sqliteStore) getRuleSet(ctx context.Context, query, key string) (store.RuleSet, error) {
	var set store.RuleSet
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&set.ID, &set.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.RuleSet{}, internalerr.ErrNotFound
	}
	if err != nil {
		return store.RuleSet{}, err
	}
	if set.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return store.RuleSet{}, fmt.Errorf("parse created_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM rules WHERE ruleset_id = ? ORDER BY position`, set.ID)
	if err != nil {
		return store.RuleSet{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return store.RuleSet{}, err
		}
		rule, err := s.codec.DecodeRule([]byte(body))
		if err != nil {
			return store.RuleSet{}, err
		}
		set.Rules = append(set.Rules, rule)
	}
	return set, rows.Err()
}

// ListRuleSets implements store.Store.
func (s *sqliteStore) ListRuleSets(ctx context.Context) ([]store.RuleSetInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT rs.id, rs.name, rs.created_at, COUNT(r.position)
FROM rulesets rs
LEFT JOIN rules r ON r.ruleset_id = rs.id
GROUP BY rs.id
ORDER BY rs.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []store.RuleSetInfo
	for rows.Next() {
		var info store.RuleSetInfo
		var createdAt string
		if err := rows.Scan(&info.ID, &info.Name, &createdAt, &info.RuleCount); err != nil {
			return nil, err
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteRuleSet implements store.Store.
func (s *sqliteStore) DeleteRuleSet(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rulesets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return internalerr.ErrNotFound
	}
	return nil
}
