package middleware

import (
	"bitwise74/health-portal/internal/model"
	"bitwise74/health-portal/internal/repository"
	"bitwise74/health-portal/internal/session"
	"bitwise74/health-portal/pkg/flash"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalKey = "user"

type SessionCookie struct {
	Name   string
	Secure bool
}

func (sc SessionCookie) Set(c *gin.Context, value string, expires time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, value, int(time.Until(expires).Seconds()), "/", "", sc.Secure, true)
}

func (sc SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, "", -1, "/", "", sc.Secure, true)
}

// NewSessionMiddleware resolves the session cookie to a user and stores it in
// the request context. Requests without a usable session continue anonymously
func NewSessionMiddleware(sessions *session.Manager, users *repository.Users, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(cookie.Name)
		if err != nil || value == "" {
			c.Next()
			return
		}

		userID, err := sessions.Resolve(c.Request.Context(), value)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				zap.L().Error("Failed to resolve session", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
			}

			c.Next()
			return
		}

		user, err := users.ByID(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				zap.L().Error("Failed to load session user", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
			}

			c.Next()
			return
		}

		c.Set(principalKey, user)
		c.Set("userID", strconv.FormatUint(uint64(user.ID), 10))
		c.Next()
	}
}

// RequireLogin stops anonymous requests before they reach the handler and
// sends them to the login page
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			flash.Add(c, "Please log in to access this page.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user the request is authenticated as
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}

	u, ok := v.(*model.User)
	return u, ok && u != nil
}
