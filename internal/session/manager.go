package session

import (
	"bitwise74/health-portal/internal/model"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrNoSession is returned when a cookie doesn't lead to a live session:
// it's missing, tampered with, expired or was logged out
var ErrNoSession = errors.New("no valid session")

const tokenLength = 32

type Manager struct {
	store    Store
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewManager(store Store, secret string, lifetime time.Duration) *Manager {
	return &Manager{
		store:    store,
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

func (m *Manager) Store() Store {
	return m.store
}

// Login opens a new session for userID and returns the value to put in the
// session cookie along with its expiry
func (m *Manager) Login(ctx context.Context, userID uint) (value string, expires time.Time, err error) {
	token, err := gonanoid.New(tokenLength)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session token, %w", err)
	}

	now := m.now()
	expires = now.Add(m.lifetime)

	err = m.store.Create(ctx, &model.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: expires,
	})
	if err != nil {
		return "", time.Time{}, err
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        token,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	value, err = t.SignedString(m.secret)
	if err != nil {
		m.store.Delete(ctx, token)
		return "", time.Time{}, fmt.Errorf("failed to sign session cookie, %w", err)
	}

	return value, expires, nil
}

// Resolve returns the ID of the user the cookie value belongs to. Errors other
// than ErrNoSession mean the store couldn't be reached
func (m *Manager) Resolve(ctx context.Context, value string) (uint, error) {
	claims, userID, err := m.parse(value)
	if err != nil {
		return 0, err
	}

	sess, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrNoSession
		}

		return 0, err
	}

	if sess.UserID != userID || sess.Expired(m.now()) {
		return 0, ErrNoSession
	}

	return userID, nil
}

// Logout revokes the session behind value. Values that don't parse have
// nothing to revoke and are ignored
func (m *Manager) Logout(ctx context.Context, value string) error {
	claims, _, err := m.parse(value)
	if err != nil {
		return nil
	}

	return m.store.Delete(ctx, claims.ID)
}

func (m *Manager) parse(value string) (*jwt.RegisteredClaims, uint, error) {
	if value == "" {
		return nil, 0, ErrNoSession
	}

	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, 0, ErrNoSession
	}

	if claims.ID == "" {
		return nil, 0, ErrNoSession
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, 0, ErrNoSession
	}

	return &claims, uint(userID), nil
}
