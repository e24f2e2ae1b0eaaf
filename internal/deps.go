package internal

import (
	"bitwise74/health-portal/config"
	"bitwise74/health-portal/db"
	"bitwise74/health-portal/internal/repository"
	"bitwise74/health-portal/internal/service"
	"bitwise74/health-portal/internal/session"
	"bitwise74/health-portal/pkg/middleware"
	"bitwise74/health-portal/pkg/security"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Config *config.Config

	DB    *gorm.DB
	Redis *redis.Client
	Argon *security.ArgonHash

	Users        *repository.Users
	Appointments *repository.Appointments
	Documents    *repository.Documents

	SessionStore session.Store
	Sessions     *session.Manager
	Cookie       middleware.SessionCookie

	Uploader *service.Uploader
	Limiter  *middleware.RateLimiter
}

// NewDeps connects to everything the handlers need as described by cfg
func NewDeps(cfg *config.Config) (*Deps, error) {
	d := &Deps{
		Config: cfg,
		Argon:  security.New(),
		Cookie: middleware.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.SSL.Enabled,
		},
		Limiter: middleware.NewRateLimiter(middleware.RateLimiterConfig{
			PerMinute: cfg.RateLimit,
		}),
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	d.DB = database

	d.Users = repository.NewUsers(database)
	d.Appointments = repository.NewAppointments(database)
	d.Documents = repository.NewDocuments(database)

	switch cfg.Session.Store {
	case "redis":
		d.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := d.Redis.Ping(ctx).Err(); err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to connect to redis, %w", err)
		}

		d.SessionStore = session.NewRedisStore(d.Redis)
	case "memory":
		zap.L().Warn("Using the in-memory session store, sessions won't survive restarts")
		d.SessionStore = session.NewMemoryStore()
	default:
		d.SessionStore = session.NewDBStore(database)
	}

	d.Sessions = session.NewManager(d.SessionStore, cfg.SecretKey, cfg.Session.Lifetime)

	d.Uploader, err = service.NewUploader(cfg.Upload.Dir, cfg.Upload.Enabled)
	if err != nil {
		d.Close()
		return nil, err
	}

	if !d.Uploader.Enabled() {
		zap.L().Warn("File uploads are disabled")
	}

	return d, nil
}

// Close releases connections held by d
func (d *Deps) Close() error {
	var errs []error

	if d.Redis != nil {
		errs = append(errs, d.Redis.Close())
	}

	if m, ok := d.SessionStore.(*session.MemoryStore); ok {
		errs = append(errs, m.Close())
	}

	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}

	return errors.Join(errs...)
}
