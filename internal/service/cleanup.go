package service

import (
	"bitwise74/health-portal/internal/session"
	"bitwise74/health-portal/pkg/middleware"
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartCleanup schedules removal of expired sessions and forgotten rate
// limiter visitors. Stop the returned scheduler on shutdown
func StartCleanup(schedule string, store session.Store, limiter *middleware.RateLimiter) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() { SessionCleanup(store) })
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q, %w", schedule, err)
	}

	if limiter != nil && limiter.Enabled() {
		_, err = c.AddFunc("@every 1m", func() {
			if n := limiter.Cleanup(); n > 0 {
				zap.L().Debug("Forgot idle rate limiter visitors", zap.Int("count", n))
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to schedule rate limiter cleanup, %w", err)
		}
	}

	zap.L().Debug("Cleanup attached", zap.String("schedule", schedule))

	c.Start()
	return c, nil
}

// SessionCleanup deletes sessions that already expired
func SessionCleanup(store session.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := store.DeleteExpired(ctx, time.Now())
	if err != nil {
		zap.L().Error("Failed to cleanup expired sessions", zap.Error(err))
		return
	}

	if n > 0 {
		zap.L().Debug("Cleaned up expired sessions", zap.Int64("count", n))
	}
}
