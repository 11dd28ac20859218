package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore persists routing rules across restarts. It expects the
// routing_rules table created by storage.BootstrapSQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an opened database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Upsert inserts or replaces the rule for its channel.
func (s *SQLiteStore) Upsert(ctx context.Context, rule Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO routing_rules(channel_id, push_role_id, pr_role_id, repo, updated_at)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(channel_id) DO UPDATE SET
  push_role_id = excluded.push_role_id,
  pr_role_id   = excluded.pr_role_id,
  repo         = excluded.repo,
  updated_at   = excluded.updated_at;
`, rule.ChannelID, rule.PushRoleID, rule.PRRoleID, rule.Repo, now)
	if err != nil {
		return fmt.Errorf("upsert routing rule: %w", err)
	}
	return nil
}

// FindByRepository returns the earliest-registered rule for fullName.
// Insertion order is approximated by rowid, which is stable for our
// insert-only-or-replace workload.
func (s *SQLiteStore) FindByRepository(ctx context.Context, fullName string) (Rule, bool, error) {
	var rule Rule
	err := s.db.QueryRowContext(ctx, `
SELECT channel_id, push_role_id, pr_role_id, repo
FROM routing_rules
WHERE repo = ?
ORDER BY rowid ASC
LIMIT 1;
`, fullName).Scan(&rule.ChannelID, &rule.PushRoleID, &rule.PRRoleID, &rule.Repo)
	if errors.Is(err, sql.ErrNoRows) {
		return Rule{}, false, nil
	}
	if err != nil {
		return Rule{}, false, fmt.Errorf("find routing rule: %w", err)
	}
	return rule, true, nil
}
