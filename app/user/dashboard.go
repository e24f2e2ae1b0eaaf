package user

import (
	"bitwise74/health-portal/app/view"
	"bitwise74/health-portal/internal"
	"bitwise74/health-portal/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserDashboard lists the appointments and documents of the logged in user.
// Only the user's own rows are ever queried
func UserDashboard(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	user, _ := middleware.CurrentUser(c)

	appointments, err := d.Appointments.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		view.Error(c, http.StatusInternalServerError)

		zap.L().Error("Failed to list appointments", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	documents, err := d.Documents.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		view.Error(c, http.StatusInternalServerError)

		zap.L().Error("Failed to list documents", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	view.HTML(c, http.StatusOK, "dashboard.html", gin.H{
		"Title":         "Dashboard",
		"Appointments":  appointments,
		"Documents":     documents,
		"UploadEnabled": d.Uploader.Enabled(),
	})
}
