// Package document contains the document upload handlers
package document

import (
	"bitwise74/health-portal/app/view"
	"bitwise74/health-portal/internal"
	"bitwise74/health-portal/internal/model"
	"bitwise74/health-portal/internal/service"
	"bitwise74/health-portal/pkg/flash"
	"bitwise74/health-portal/pkg/middleware"
	"bitwise74/health-portal/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const unavailableMsg = "File upload is not available on this server"

func UploadForm(c *gin.Context, d *internal.Deps) {
	if !d.Uploader.Enabled() {
		flash.Add(c, unavailableMsg)
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	view.HTML(c, http.StatusOK, "upload.html", gin.H{
		"Title": "Upload",
	})
}

func DocumentUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	user, _ := middleware.CurrentUser(c)

	if !d.Uploader.Enabled() {
		flash.Add(c, unavailableMsg)
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			c.Error(err)
			return
		}

		flash.Add(c, "Invalid file")
		c.Redirect(http.StatusFound, "/upload")
		return
	}

	_, name, err := validators.FileValidator(fh, d.Config.Upload.MaxSize)
	if err != nil {
		flash.Add(c, "Invalid file: "+err.Error())
		c.Redirect(http.StatusFound, "/upload")
		return
	}

	src, err := fh.Open()
	if err != nil {
		flash.Add(c, "Upload failed, please try again")
		c.Redirect(http.StatusFound, "/upload")

		zap.L().Error("Failed to open multipart file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer src.Close()

	saved, err := d.Uploader.Save(src, name)
	if err != nil {
		if errors.Is(err, service.ErrUnavailable) {
			flash.Add(c, unavailableMsg)
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}

		flash.Add(c, "Upload failed, please try again")
		c.Redirect(http.StatusFound, "/upload")

		zap.L().Error("Failed to save upload", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	doc := &model.Document{
		UserID:           user.ID,
		Filename:         saved.Name,
		OriginalFilename: fh.Filename,
		FileType:         saved.MIME,
		FileSize:         saved.Size,
		Description:      c.PostForm("description"),
	}

	if err := d.Documents.Create(c.Request.Context(), doc); err != nil {
		if rmErr := d.Uploader.Remove(saved.Name); rmErr != nil {
			zap.L().Error("Failed to remove orphaned upload", zap.Error(rmErr), zap.String("requestID", requestID))
		}

		flash.Add(c, "Upload failed, please try again")
		c.Redirect(http.StatusFound, "/upload")

		zap.L().Error("Failed to create document", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	flash.Add(c, "File uploaded successfully")
	c.Redirect(http.StatusFound, "/dashboard")
}
