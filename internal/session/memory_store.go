package session

import (
	"bitwise74/health-portal/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v2"
)

// MemoryStore keeps sessions in process memory. Sessions don't survive a
// restart and aren't shared between processes, so it only suits single
// instance deployments and development
type MemoryStore struct {
	cache *ttlcache.Cache
}

func NewMemoryStore() *MemoryStore {
	c := ttlcache.NewCache()
	c.SkipTTLExtensionOnHit(true)

	return &MemoryStore{cache: c}
}

func (s *MemoryStore) Create(_ context.Context, sess *model.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	cp := *sess
	if err := s.cache.SetWithTTL(sess.Token, &cp, ttl); err != nil {
		return fmt.Errorf("failed to store session in memory, %w", err)
	}

	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*model.Session, error) {
	v, err := s.cache.Get(token)
	if err != nil {
		if errors.Is(err, ttlcache.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to read session from memory, %w", err)
	}

	sess := *v.(*model.Session)
	if sess.Expired(time.Now()) {
		return nil, ErrNotFound
	}

	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	err := s.cache.Remove(token)
	if err != nil && !errors.Is(err, ttlcache.ErrNotFound) {
		return fmt.Errorf("failed to delete session from memory, %w", err)
	}

	return nil
}

// DeleteExpired is a no-op, the cache evicts expired entries itself
func (s *MemoryStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s *MemoryStore) Close() error {
	return s.cache.Close()
}
