// Package session keeps track of logged in users. Sessions live on the server
// in a Store and browsers only hold a signed reference to them, so logging
// out revokes the session for every copy of the cookie
package session

import (
	"bitwise74/health-portal/internal/model"
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Create(ctx context.Context, s *model.Session) error
	// Get returns ErrNotFound for unknown and expired tokens
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
	// DeleteExpired removes sessions that expired before now and reports
	// how many were removed
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
