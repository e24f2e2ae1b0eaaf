package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Appointment is read-only for patients. Rows are created by staff tooling
// or seed scripts, never through the web forms
type Appointment struct {
	ID              uint              `gorm:"primaryKey;autoIncrement"`
	UserID          uint              `gorm:"index;not null"`
	Title           string            `gorm:"size:200;not null"`
	ProviderName    string            `gorm:"size:200;not null"`
	AppointmentDate time.Time         `gorm:"index;not null"`
	Status          AppointmentStatus `gorm:"size:20;default:Scheduled"`
	Notes           string            `gorm:"type:text"`
	CreatedAt       time.Time
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.UserID == 0 {
		return errors.New("appointment has no owner")
	}

	if a.Title == "" || a.ProviderName == "" {
		return errors.New("appointment title and provider name are required")
	}

	if a.AppointmentDate.IsZero() {
		return errors.New("appointment date is required")
	}

	if a.Status == "" {
		a.Status = StatusScheduled
	}

	return checkEnum("status", a.Status)
}
