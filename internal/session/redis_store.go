package session

import (
	"bitwise74/health-portal/internal/model"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "session:"

// RedisStore keeps every session in a hash that redis expires on its own
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Create(ctx context.Context, sess *model.Session) error {
	key := redisPrefix + sess.Token

	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key,
			"user_id", strconv.FormatUint(uint64(sess.UserID), 10),
			"created_at", strconv.FormatInt(sess.CreatedAt.UnixMilli(), 10),
			"expires_at", strconv.FormatInt(sess.ExpiresAt.UnixMilli(), 10),
		)
		p.ExpireAt(ctx, key, sess.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store session in redis, %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*model.Session, error) {
	fields, err := s.rdb.HGetAll(ctx, redisPrefix+token).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session from redis, %w", err)
	}

	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	userID, err := strconv.ParseUint(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session user id, %w", err)
	}

	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session expiry, %w", err)
	}

	sess := &model.Session{
		Token:     token,
		UserID:    uint(userID),
		CreatedAt: time.UnixMilli(createdAt),
		ExpiresAt: time.UnixMilli(expiresAt),
	}

	if sess.Expired(time.Now()) {
		return nil, ErrNotFound
	}

	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, redisPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis, %w", err)
	}

	return nil
}

// DeleteExpired is a no-op, keys carry their own TTL
func (s *RedisStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
