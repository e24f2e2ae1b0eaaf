// Package user contains the account handlers: registration, login, logout
// and the dashboard
package user

import (
	"bitwise74/health-portal/app/view"
	"bitwise74/health-portal/internal"
	"bitwise74/health-portal/internal/repository"
	"bitwise74/health-portal/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrAuthenticationFailed covers both unknown emails and wrong passwords so
// the response doesn't reveal which emails have an account
var ErrAuthenticationFailed = errors.New("invalid email or password")

const invalidCredentialsMsg = "Invalid email or password"

type loginBody struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func LoginForm(c *gin.Context, d *internal.Deps) {
	loginPage(c, http.StatusOK, "", "")
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		zap.L().Debug("Can't bind login form", zap.Error(err), zap.String("requestID", requestID))

		loginPage(c, http.StatusBadRequest, "", "Invalid form submitted")
		return
	}

	data.Email = validators.NormalizeEmail(data.Email)

	if data.Email == "" || data.Password == "" {
		loginFailed(c, data.Email, requestID)
		return
	}

	user, err := d.Users.ByEmail(c.Request.Context(), data.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			view.Error(c, http.StatusInternalServerError)

			zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		d.Argon.VerifyDummy(data.Password)
		loginFailed(c, data.Email, requestID)
		return
	}

	ok, err := d.Argon.VerifyPasswd(data.Password, user.PasswordHash)
	if err != nil {
		zap.L().Error("Stored password hash is malformed", zap.Error(err), zap.Uint("userID", user.ID), zap.String("requestID", requestID))
	}

	if !ok {
		loginFailed(c, data.Email, requestID)
		return
	}

	if err := startSession(c, d, user.ID); err != nil {
		view.Error(c, http.StatusInternalServerError)

		zap.L().Error("Failed to start session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

func loginFailed(c *gin.Context, email, requestID string) {
	zap.L().Debug("Login failed", zap.Error(ErrAuthenticationFailed), zap.String("requestID", requestID))

	loginPage(c, http.StatusUnauthorized, email, invalidCredentialsMsg)
}

func loginPage(c *gin.Context, code int, email, errMsg string) {
	view.HTML(c, code, "login.html", gin.H{
		"Title": "Log in",
		"Email": email,
		"Error": errMsg,
	})
}

// startSession opens a session for userID and hands its cookie to the browser
func startSession(c *gin.Context, d *internal.Deps, userID uint) error {
	value, expires, err := d.Sessions.Login(c.Request.Context(), userID)
	if err != nil {
		return err
	}

	d.Cookie.Set(c, value, expires)
	return nil
}
