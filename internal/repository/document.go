package repository

import (
	"bitwise74/health-portal/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Documents struct {
	db *gorm.DB
}

func NewDocuments(db *gorm.DB) *Documents {
	return &Documents{db: db}
}

func (r *Documents) Create(ctx context.Context, d *model.Document) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create document, %w", err)
	}

	return nil
}

// ListForUser returns the documents owned by userID, newest first
func (r *Documents) ListForUser(ctx context.Context, userID uint) ([]model.Document, error) {
	var out []model.Document

	err := r.db.
		WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_date DESC").
		Order("id DESC").
		Find(&out).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents, %w", err)
	}

	return out, nil
}
