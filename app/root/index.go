// Package root contains handlers that don't belong to a resource
package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Index renders the landing page. The page is the same for every visitor so
// the router caches it
func Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title": "Welcome",
	})
}
