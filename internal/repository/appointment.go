package repository

import (
	"bitwise74/health-portal/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Appointments struct {
	db *gorm.DB
}

func NewAppointments(db *gorm.DB) *Appointments {
	return &Appointments{db: db}
}

func (r *Appointments) Create(ctx context.Context, a *model.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create appointment, %w", err)
	}

	return nil
}

// ListForUser returns the appointments owned by userID, earliest first
func (r *Appointments) ListForUser(ctx context.Context, userID uint) ([]model.Appointment, error) {
	var out []model.Appointment

	err := r.db.
		WithContext(ctx).
		Where("user_id = ?", userID).
		Order("appointment_date ASC").
		Order("id ASC").
		Find(&out).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments, %w", err)
	}

	return out, nil
}
