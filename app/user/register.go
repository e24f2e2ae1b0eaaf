package user

import (
	"bitwise74/health-portal/app/view"
	"bitwise74/health-portal/internal"
	"bitwise74/health-portal/internal/model"
	"bitwise74/health-portal/internal/repository"
	"bitwise74/health-portal/pkg/flash"
	"bitwise74/health-portal/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterForm(c *gin.Context, d *internal.Deps) {
	registerPage(c, http.StatusOK, &validators.RegisterForm{}, "")
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var form validators.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		zap.L().Debug("Can't bind register form", zap.Error(err), zap.String("requestID", requestID))

		registerPage(c, http.StatusBadRequest, &form, "Invalid form submitted")
		return
	}

	if err := form.Validate(); err != nil {
		zap.L().Debug("Invalid register form", zap.Error(err), zap.String("requestID", requestID))

		registerPage(c, http.StatusBadRequest, &form, validationMessage(err))
		return
	}

	hash, err := d.Argon.GenerateFromPassword(form.Password)
	if err != nil {
		view.Error(c, http.StatusInternalServerError)

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user := form.User(hash)

	if err := d.Users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			flash.Add(c, "This email is already registered. Please log in or use a different email")
			c.Redirect(http.StatusFound, "/register")
			return
		}

		view.Error(c, http.StatusInternalServerError)

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	zap.L().Info("New user registered", zap.Uint("userID", user.ID), zap.String("requestID", requestID))

	if err := startSession(c, d, user.ID); err != nil {
		// The account exists, let them log in by hand
		flash.Add(c, "Your account was created, please log in")
		c.Redirect(http.StatusFound, "/login")

		zap.L().Error("Failed to start session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

func registerPage(c *gin.Context, code int, form *validators.RegisterForm, errMsg string) {
	view.HTML(c, code, "register.html", gin.H{
		"Title":   "Register",
		"Error":   errMsg,
		"Options": model.Options(),
		"Form": gin.H{
			"Email": form.Email,
			"Values": map[string]string{
				"age_group":             string(form.AgeGroup),
				"birth_sex":             string(form.BirthSex),
				"numeracy_score":        string(form.NumeracyScore),
				"health_literacy_level": string(form.HealthLiteracyLevel),
				"preferred_access_mode": string(form.PreferredAccessMode),
			},
		},
	})
}

func validationMessage(err error) string {
	var ve *validators.ValidationError
	if errors.As(err, &ve) {
		return fieldLabels[ve.Field] + ": " + ve.Err.Error()
	}

	return "Invalid form submitted"
}

var fieldLabels = map[string]string{
	"email":                 "Email",
	"password":              "Password",
	"age_group":             "Age group",
	"birth_sex":             "Birth sex",
	"numeracy_score":        "Numeracy",
	"health_literacy_level": "Health literacy",
	"preferred_access_mode": "Preferred access",
}
