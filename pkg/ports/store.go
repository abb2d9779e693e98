package ports

import (
	"context"

	"github.com/aretw0/excelauto/pkg/domain"
)

// SessionStore persists the per-session workbook selection.
type SessionStore interface {
	// Save stores the session under session.ID, replacing any previous value.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves a session.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the known sessions.
	List(ctx context.Context) ([]string, error)
}
