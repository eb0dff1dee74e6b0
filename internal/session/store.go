// Package session is a per-session key/value store persisted in sqlite. It
// stands in for a browser tab's session storage; the Authorization token
// lives under a fixed key.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/se/internal/database"
	"github.com/jask/se/internal/database/repository"
	"github.com/jask/se/internal/secrets"
)

// TokenKey is the entry holding the Authorization token.
const TokenKey = "token"

type Store struct {
	repo *repository.SessionEntryRepo
	id   string
	log  *zap.Logger

	// sealer, when set, encrypts the token entry at rest.
	sealer *secrets.Sealer
}

// New scopes a store to sessionID. An empty id starts a fresh session.
func New(repo *repository.SessionEntryRepo, sessionID string, log *zap.Logger) *Store {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{repo: repo, id: sessionID, log: log.With(zap.String("session", sessionID))}
}

// ID returns the session id.
func (s *Store) ID() string { return s.id }

// Get returns the raw value stored under name.
func (s *Store) Get(ctx context.Context, name string) (string, bool, error) {
	e, err := s.repo.Get(ctx, s.id, name)
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", name, err)
	}
	if e == nil {
		return "", false, nil
	}
	return e.Value, true, nil
}

// GetJSON decodes the value stored under name. Missing or malformed values
// yield nil.
func (s *Store) GetJSON(ctx context.Context, name string) any {
	raw, ok, err := s.Get(ctx, name)
	if err != nil {
		s.log.Warn("session read failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.log.Debug("session value is not json", zap.String("name", name))
		return nil
	}
	return v
}

func (s *Store) Set(ctx context.Context, name, value string) error {
	err := s.repo.Upsert(ctx, repository.SessionEntry{
		SessionID: s.id,
		Name:      name,
		Value:     value,
		UpdatedAt: database.Now(),
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

// SetAll stores every pair atomically.
func (s *Store) SetAll(ctx context.Context, values map[string]string) error {
	now := database.Now()
	entries := make([]repository.SessionEntry, 0, len(values))
	for name, value := range values {
		entries = append(entries, repository.SessionEntry{SessionID: s.id, Name: name, Value: value, UpdatedAt: now})
	}
	if err := s.repo.UpsertAll(ctx, entries); err != nil {
		return fmt.Errorf("set %d entries: %w", len(entries), err)
	}
	return nil
}

// SetJSON stores v encoded as JSON. A nil v is ignored.
func (s *Store) SetJSON(ctx context.Context, name string, v any) error {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.Set(ctx, name, string(data))
}

// Entries lists every entry of the session.
func (s *Store) Entries(ctx context.Context) (map[string]string, error) {
	rows, err := s.repo.List(ctx, s.id)
	if err != nil {
		return nil, fmt.Errorf("list session: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, e := range rows {
		out[e.Name] = e.Value
	}
	return out, nil
}

// Clear removes every entry of the session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.DeleteSession(ctx, s.id); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// SealTokens makes Token and SetToken encrypt the token entry. Tokens
// written before the sealer was installed no longer read back.
func (s *Store) SealTokens(sl *secrets.Sealer) { s.sealer = sl }

// Token returns the stored Authorization token, or "" when none is set.
func (s *Store) Token(ctx context.Context) (string, error) {
	tok, ok, err := s.Get(ctx, TokenKey)
	if err != nil || !ok || s.sealer == nil {
		return tok, err
	}
	plain, err := s.sealer.Open(tok)
	if err != nil {
		return "", fmt.Errorf("open token: %w", err)
	}
	return plain, nil
}

// SetToken stores a non-empty Authorization token.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(token)
		if err != nil {
			return fmt.Errorf("seal token: %w", err)
		}
		token = sealed
	}
	return s.Set(ctx, TokenKey, token)
}
