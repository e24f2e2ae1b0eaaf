// Package model defines database models
package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:200;not null"`

	AgeGroup            AgeGroup            `gorm:"size:10;not null"`
	BirthSex            BirthSex            `gorm:"size:10;not null"`
	NumeracyScore       NumeracyScore       `gorm:"size:20;not null"`
	HealthLiteracyLevel HealthLiteracyLevel `gorm:"size:10;not null"`
	PreferredAccessMode AccessMode          `gorm:"size:20;not null"`

	CreatedAt time.Time

	Appointments []Appointment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Documents    []Document    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Sessions     []Session     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Email == "" {
		return errors.New("email can't be empty")
	}

	if u.PasswordHash == "" {
		return errors.New("password hash can't be empty")
	}

	return errors.Join(
		checkEnum("age_group", u.AgeGroup),
		checkEnum("birth_sex", u.BirthSex),
		checkEnum("numeracy_score", u.NumeracyScore),
		checkEnum("health_literacy_level", u.HealthLiteracyLevel),
		checkEnum("preferred_access_mode", u.PreferredAccessMode),
	)
}
