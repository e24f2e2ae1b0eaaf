package model

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidValue is returned when an enumerated column receives a value
// outside of its allowed set
var ErrInvalidValue = errors.New("invalid value")

type (
	AgeGroup            string
	BirthSex            string
	NumeracyScore       string
	HealthLiteracyLevel string
	AccessMode          string
	AppointmentStatus   string
)

const (
	AgeGroup18To34 AgeGroup = "18-34"
	AgeGroup35To49 AgeGroup = "35-49"
	AgeGroup50To64 AgeGroup = "50-64"
	AgeGroup65To74 AgeGroup = "65-74"
	AgeGroup75Plus AgeGroup = "≥75"
)

const (
	BirthSexMale   BirthSex = "Male"
	BirthSexFemale BirthSex = "Female"
)

const (
	NumeracyVeryEasy NumeracyScore = "Very easy"
	NumeracyEasy     NumeracyScore = "Easy"
	NumeracyHard     NumeracyScore = "Hard"
)

const (
	HealthLiteracyHigh   HealthLiteracyLevel = "High"
	HealthLiteracyMedium HealthLiteracyLevel = "Medium"
	HealthLiteracyLow    HealthLiteracyLevel = "Low"
)

const (
	AccessWebsiteOnly AccessMode = "Website only"
	AccessAppOnly     AccessMode = "App only"
	AccessBoth        AccessMode = "Both"
)

const (
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusConfirmed AppointmentStatus = "Confirmed"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

var (
	ageGroups            = []AgeGroup{AgeGroup18To34, AgeGroup35To49, AgeGroup50To64, AgeGroup65To74, AgeGroup75Plus}
	birthSexes           = []BirthSex{BirthSexMale, BirthSexFemale}
	numeracyScores       = []NumeracyScore{NumeracyVeryEasy, NumeracyEasy, NumeracyHard}
	healthLiteracyLevels = []HealthLiteracyLevel{HealthLiteracyHigh, HealthLiteracyMedium, HealthLiteracyLow}
	accessModes          = []AccessMode{AccessWebsiteOnly, AccessAppOnly, AccessBoth}
	appointmentStatuses  = []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled}
)

func (v AgeGroup) Valid() bool            { return slices.Contains(ageGroups, v) }
func (v BirthSex) Valid() bool            { return slices.Contains(birthSexes, v) }
func (v NumeracyScore) Valid() bool       { return slices.Contains(numeracyScores, v) }
func (v HealthLiteracyLevel) Valid() bool { return slices.Contains(healthLiteracyLevels, v) }
func (v AccessMode) Valid() bool          { return slices.Contains(accessModes, v) }
func (v AppointmentStatus) Valid() bool   { return slices.Contains(appointmentStatuses, v) }

// Options returns the allowed values of every enumerated user attribute,
// keyed by form field name. Used to render the registration form
func Options() map[string][]string {
	return map[string][]string{
		"age_group":             toStrings(ageGroups),
		"birth_sex":             toStrings(birthSexes),
		"numeracy_score":        toStrings(numeracyScores),
		"health_literacy_level": toStrings(healthLiteracyLevels),
		"preferred_access_mode": toStrings(accessModes),
	}
}

func toStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}

	return out
}

type validator interface {
	Valid() bool
}

func checkEnum(field string, v validator) error {
	if !v.Valid() {
		return fmt.Errorf("%s %q, %w", field, v, ErrInvalidValue)
	}

	return nil
}
