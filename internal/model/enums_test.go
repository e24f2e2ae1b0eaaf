package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumValidity(t *testing.T) {
	assert.True(t, AgeGroup75Plus.Valid())
	assert.False(t, AgeGroup("12-17").Valid())
	assert.True(t, NumeracyVeryEasy.Valid())
	assert.False(t, NumeracyScore("very easy").Valid())
	assert.False(t, AccessMode("").Valid())
	assert.True(t, StatusCancelled.Valid())
}

func TestOptionsListsEveryField(t *testing.T) {
	opts := Options()

	require.Len(t, opts, 5)
	assert.Equal(t, []string{"18-34", "35-49", "50-64", "65-74", "≥75"}, opts["age_group"])
	assert.Equal(t, []string{"Website only", "App only", "Both"}, opts["preferred_access_mode"])
}

func TestUserBeforeCreateRejectsUnknownEnum(t *testing.T) {
	u := &User{
		Email:               "a@example.com",
		PasswordHash:        "x",
		AgeGroup:            AgeGroup18To34,
		BirthSex:            "Other",
		NumeracyScore:       NumeracyEasy,
		HealthLiteracyLevel: HealthLiteracyLow,
		PreferredAccessMode: AccessBoth,
	}

	err := u.BeforeCreate(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "birth_sex")
}

func TestAppointmentDefaultsToScheduled(t *testing.T) {
	a := &Appointment{UserID: 1, Title: "Checkup", ProviderName: "Dr. Who", AppointmentDate: time.Now()}

	require.NoError(t, a.BeforeCreate(nil))
	assert.Equal(t, StatusScheduled, a.Status)

	a.Status = "Postponed"
	assert.ErrorIs(t, a.BeforeCreate(nil), ErrInvalidValue)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now}

	assert.True(t, s.Expired(now))
	assert.False(t, s.Expired(now.Add(-time.Second)))
}
