package session

import (
	"bitwise74/health-portal/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DBStore keeps sessions in the sessions table. It is the default because it
// works across several server processes without extra infrastructure
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Create(ctx context.Context, sess *model.Session) error {
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return fmt.Errorf("failed to store session, %w", err)
	}

	return nil
}

func (s *DBStore) Get(ctx context.Context, token string) (*model.Session, error) {
	var sess model.Session

	err := s.db.
		WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&sess).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to query session, %w", err)
	}

	return &sess, nil
}

func (s *DBStore) Delete(ctx context.Context, token string) error {
	err := s.db.
		WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.Session{}).
		Error
	if err != nil {
		return fmt.Errorf("failed to delete session, %w", err)
	}

	return nil
}

func (s *DBStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r := s.db.
		WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.Session{})
	if r.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions, %w", r.Error)
	}

	return r.RowsAffected, nil
}
