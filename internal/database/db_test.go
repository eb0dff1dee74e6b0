package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "se.db")
	if err := RunMigrations(path); err != nil {
		t.Fatalf("first migration: %v", err)
	}
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second migration: %v", err)
	}
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM session_entries`).Scan(&n); err != nil {
		t.Fatalf("query session_entries: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty table, got %d rows", n)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, err := OpenMigrated(filepath.Join(t.TempDir(), "se.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	boom := errors.New("boom")
	err = WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO session_entries(session_id, name, value) VALUES ('s', 'a', '1')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM session_entries`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected rollback, got %d rows", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = WithTx(ctx, db, func(*sql.Tx) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
