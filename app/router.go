// Package app wires the HTTP routes of the portal
package app

import (
	"bitwise74/health-portal/app/document"
	"bitwise74/health-portal/app/root"
	"bitwise74/health-portal/app/user"
	"bitwise74/health-portal/app/view"
	"bitwise74/health-portal/internal"
	"bitwise74/health-portal/pkg/middleware"
	"net/http"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewRouter(d *internal.Deps) *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(view.Templates())

	router.Use(
		ginzap.RecoveryWithZap(zap.L(), true),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == http.MethodHead
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
		middleware.BodySizeLimiter(d.Config.Upload.MaxSize),
	)

	if len(d.Config.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     d.Config.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 8 << 20

	store := persist.NewMemoryStore(time.Minute)

	// The landing page is the same for everyone and is served before the
	// session is looked up, so cached copies never carry user data
	router.GET("/", cache.CacheByRequestURI(store, time.Minute), root.Index)

	// HEAD /heartbeat		-> Used to check if the server is alive
	router.HEAD("/heartbeat", root.Heartbeat)

	limiter := d.Limiter.Handler()

	m := router.Group("", middleware.NewSessionMiddleware(d.Sessions, d.Users, d.Cookie))
	{
		// GET /login			-> Renders the login form
		m.GET("/login", func(c *gin.Context) { user.LoginForm(c, d) })

		// POST /login		-> Logs in a user and starts a session
		m.POST("/login", limiter, func(c *gin.Context) { user.UserLogin(c, d) })

		// GET /register		-> Renders the registration form
		m.GET("/register", func(c *gin.Context) { user.RegisterForm(c, d) })

		// POST /register		-> Registers a new user and starts a session
		m.POST("/register", limiter, func(c *gin.Context) { user.UserRegister(c, d) })
	}

	p := m.Group("", middleware.RequireLogin())
	{
		// GET /dashboard		-> Lists the user's appointments and documents
		p.GET("/dashboard", func(c *gin.Context) { user.UserDashboard(c, d) })

		// GET /logout		-> Ends the session
		p.GET("/logout", func(c *gin.Context) { user.UserLogout(c, d) })

		// GET /upload		-> Renders the upload form
		p.GET("/upload", func(c *gin.Context) { document.UploadForm(c, d) })

		// POST /upload		-> Stores a document for the user
		p.POST("/upload", func(c *gin.Context) { document.DocumentUpload(c, d) })
	}

	return router
}
