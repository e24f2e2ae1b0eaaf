// Package flash implements one-shot messages carried to the next rendered
// page in a cookie
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	cookieName = "flash"
	pendingKey = "flash.pending"
)

// Add queues msg for the next page the browser renders
func Add(c *gin.Context, msg string) {
	var pending []string
	if v, ok := c.Get(pendingKey); ok {
		pending = v.([]string)
	}

	pending = append(pending, msg)
	c.Set(pendingKey, pending)

	b, _ := json.Marshal(pending)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, base64.RawURLEncoding.EncodeToString(b), 0, "/", "", false, true)
}

// Pop returns the messages carried by the request and clears them so they
// are shown only once
func Pop(c *gin.Context) []string {
	raw, err := c.Cookie(cookieName)
	if err != nil || raw == "" {
		return nil
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, "", -1, "/", "", false, true)

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}

	var msgs []string
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil
	}

	return msgs
}
