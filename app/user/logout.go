package user

import (
	"bitwise74/health-portal/internal"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func UserLogout(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	value, _ := c.Cookie(d.Cookie.Name)
	if err := d.Sessions.Logout(c.Request.Context(), value); err != nil {
		zap.L().Error("Failed to revoke session", zap.Error(err), zap.String("requestID", requestID))
	}

	d.Cookie.Clear(c)
	c.Redirect(http.StatusFound, "/")
}
