package validators

import (
	"bitwise74/health-portal/internal/model"
	"errors"
)

var ErrFieldInvalid = errors.New("please choose one of the listed options")

// ValidationError ties a failed check to the form field it belongs to
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

type RegisterForm struct {
	Email               string                    `form:"email"`
	Password            string                    `form:"password"`
	AgeGroup            model.AgeGroup            `form:"age_group"`
	BirthSex            model.BirthSex            `form:"birth_sex"`
	NumeracyScore       model.NumeracyScore       `form:"numeracy_score"`
	HealthLiteracyLevel model.HealthLiteracyLevel `form:"health_literacy_level"`
	PreferredAccessMode model.AccessMode          `form:"preferred_access_mode"`
}

// Validate normalizes the email and checks every field, stopping at the
// first failure
func (f *RegisterForm) Validate() error {
	f.Email = NormalizeEmail(f.Email)

	if err := EmailValidator(f.Email); err != nil {
		return &ValidationError{Field: "email", Err: err}
	}

	if err := PasswordValidator(f.Password); err != nil {
		return &ValidationError{Field: "password", Err: err}
	}

	for _, c := range []struct {
		field string
		ok    bool
	}{
		{"age_group", f.AgeGroup.Valid()},
		{"birth_sex", f.BirthSex.Valid()},
		{"numeracy_score", f.NumeracyScore.Valid()},
		{"health_literacy_level", f.HealthLiteracyLevel.Valid()},
		{"preferred_access_mode", f.PreferredAccessMode.Valid()},
	} {
		if !c.ok {
			return &ValidationError{Field: c.field, Err: ErrFieldInvalid}
		}
	}

	return nil
}

// User builds the account described by the form. Call Validate first
func (f *RegisterForm) User(passwordHash string) *model.User {
	return &model.User{
		Email:               f.Email,
		PasswordHash:        passwordHash,
		AgeGroup:            f.AgeGroup,
		BirthSex:            f.BirthSex,
		NumeracyScore:       f.NumeracyScore,
		HealthLiteracyLevel: f.HealthLiteracyLevel,
		PreferredAccessMode: f.PreferredAccessMode,
	}
}
