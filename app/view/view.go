// Package view renders the portal's HTML pages
package view

import (
	"bitwise74/health-portal/pkg/flash"
	"bitwise74/health-portal/pkg/middleware"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templates embed.FS

// Templates parses every embedded page. Each page is registered under its
// file name
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"date": func(t time.Time) string { return t.Format("02 Jan 2006 15:04") },
		"size": humanSize,
	}).ParseFS(templates, "templates/*.html"))
}

// HTML renders page with data, adding the pending flash messages and the
// logged in user
func HTML(c *gin.Context, code int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	data["Flashes"] = flash.Pop(c)
	if u, ok := middleware.CurrentUser(c); ok {
		data["User"] = u
	}

	c.HTML(code, page, data)
}

// Error renders the generic error page. Internal details are never shown
func Error(c *gin.Context, code int) {
	HTML(c, code, "error.html", gin.H{
		"Status":    code,
		"Message":   http.StatusText(code),
		"RequestID": c.GetString("requestID"),
	})
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
