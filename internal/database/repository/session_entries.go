package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jask/se/internal/database"
)

// SessionEntry is one key of a session scoped store.
type SessionEntry struct {
	SessionID string
	Name      string
	Value     string
	UpdatedAt time.Time
}

// SessionEntryRepo handles session_entries.
type SessionEntryRepo struct {
	db *sql.DB
}

func NewSessionEntryRepo(db *sql.DB) *SessionEntryRepo { return &SessionEntryRepo{db: db} }

func (r *SessionEntryRepo) Upsert(ctx context.Context, e SessionEntry) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO session_entries(session_id, name, value, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(session_id, name) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;
	`, e.SessionID, e.Name, e.Value, e.UpdatedAt)
	return err
}

// UpsertAll writes entries in a single transaction.
func (r *SessionEntryRepo) UpsertAll(ctx context.Context, entries []SessionEntry) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO session_entries(session_id, name, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, name) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, e.SessionID, e.Name, e.Value, e.UpdatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns nil when the entry does not exist.
func (r *SessionEntryRepo) Get(ctx context.Context, sessionID, name string) (*SessionEntry, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT session_id, name, value, updated_at FROM session_entries WHERE session_id = ? AND name = ?`,
		sessionID, name)
	var e SessionEntry
	if err := row.Scan(&e.SessionID, &e.Name, &e.Value, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *SessionEntryRepo) List(ctx context.Context, sessionID string) ([]SessionEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT session_id, name, value, updated_at FROM session_entries WHERE session_id = ? ORDER BY name`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SessionEntry
	for rows.Next() {
		var e SessionEntry
		if err := rows.Scan(&e.SessionID, &e.Name, &e.Value, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteSession removes every entry of a session.
func (r *SessionEntryRepo) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_entries WHERE session_id = ?`, sessionID)
	return err
}
