package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore keeps drafts in the drafts table created by the db package.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Save(ctx context.Context, owner, key string, values Snapshot) error {
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO drafts (owner, key, payload, saved_at) VALUES (?, ?, ?, ?) ON CONFLICT(owner, key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at",
		owner, key, string(payload), s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, owner, key string) (*Draft, error) {
	var payload string
	var savedAt time.Time
	err := s.db.QueryRowContext(ctx,
		"SELECT payload, saved_at FROM drafts WHERE owner = ? AND key = ?",
		owner, key,
	).Scan(&payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	values := Snapshot{}
	if err := json.Unmarshal([]byte(payload), &values); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &Draft{Owner: owner, Key: key, Values: values, SavedAt: savedAt}, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, owner, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE owner = ? AND key = ?", owner, key)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Prune removes drafts saved before cutoff and returns how many went.
func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE saved_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune drafts: %w", err)
	}
	return res.RowsAffected()
}
