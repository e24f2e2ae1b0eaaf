// Package db opens the relational database and migrates the schema
package db

import (
	"bitwise74/health-portal/internal/model"
	"bitwise74/health-portal/pkg/util"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrUnsupportedURL = errors.New("unsupported database url")

// New connects to the database described by url and migrates every table.
// Accepted forms are sqlite:///relative.db, sqlite:////absolute.db and
// postgres:// or postgresql:// connection strings
func New(url string) (*gorm.DB, error) {
	dialector, err := open(url)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.Appointment{}, model.Document{}, model.Session{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}

func open(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(strings.TrimPrefix(url, "sqlite://"), "/")
		if path == "" {
			return nil, fmt.Errorf("sqlite url has no path, %w", ErrUnsupportedURL)
		}

		// A database file created inside a container is gone once it stops.
		// The host should instead mount it using volumes
		if util.IsRunningInDocker() {
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				zap.L().Warn("SQLite database file not mounted, data will be lost with the container", zap.String("path", path))
			}
		}

		return sqlite.Open(path + "?_foreign_keys=on"), nil
	default:
		return nil, ErrUnsupportedURL
	}
}
