package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SessionMetaRepo handles session_meta, a small key/value table describing
// the sessions themselves.
type SessionMetaRepo struct {
	db *sql.DB
}

func NewSessionMetaRepo(db *sql.DB) *SessionMetaRepo { return &SessionMetaRepo{db: db} }

// Get reports false when key is not stored.
func (r *SessionMetaRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM session_meta WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Insert stores value under key unless the key already exists. It reports
// whether the row was written.
func (r *SessionMetaRepo) Insert(ctx context.Context, key, value string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO session_meta(key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO NOTHING;`, key, value, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
