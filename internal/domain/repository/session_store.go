package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps one record per session id. Records expire on their own;
// Create and Update both (re)start the expiry window.
type SessionStore interface {
	// Create assigns ID, CreatedAt and ExpiresAt and persists s.
	Create(ctx context.Context, s *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, s *entity.Session) error
	// Destroy removes the record. Destroying an absent id is not an error.
	Destroy(ctx context.Context, id string) error
}
