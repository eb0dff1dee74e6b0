package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/se/internal/database"
	"github.com/jask/se/internal/database/repository"
)

const lastSessionKey = "last_session"

// ResumeID returns the session id remembered in meta. The first call on a
// fresh database generates one and stores it.
func ResumeID(ctx context.Context, meta *repository.SessionMetaRepo) (string, error) {
	id, ok, err := meta.Get(ctx, lastSessionKey)
	if err != nil {
		return "", fmt.Errorf("read last session: %w", err)
	}
	if ok {
		return id, nil
	}
	id = uuid.NewString()
	written, err := meta.Insert(ctx, lastSessionKey, id, database.Now())
	if err != nil {
		return "", fmt.Errorf("store last session: %w", err)
	}
	if written {
		return id, nil
	}
	// another process stored one first
	id, _, err = meta.Get(ctx, lastSessionKey)
	if err != nil {
		return "", fmt.Errorf("read last session: %w", err)
	}
	return id, nil
}
