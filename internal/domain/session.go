package domain

import (
	"context"

	"github.com/google/uuid"
)

// SessionProvider resolves the authenticated user for a request
// Authentication itself happens in an external identity service
type SessionProvider interface {
	CurrentUserID(ctx context.Context) (uuid.UUID, error)
}

// StaticSession always returns the same user, used by single-user deployments and the CLI
type StaticSession struct {
	UserID uuid.UUID
}

// CurrentUserID implements SessionProvider
func (s StaticSession) CurrentUserID(ctx context.Context) (uuid.UUID, error) {
	if s.UserID == uuid.Nil {
		return uuid.Nil, ErrNotReady
	}
	return s.UserID, nil
}
