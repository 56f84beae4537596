package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rkive250/MedNotify/config"
	"github.com/rkive250/MedNotify/internal/api/handler"
	"github.com/rkive250/MedNotify/internal/api/middleware"
	"github.com/rkive250/MedNotify/pkg/jwt"
	"github.com/rkive250/MedNotify/pkg/redis"
)

const (
	maxBodyBytes   = 1 << 20
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Setup builds the gin engine. rdb may be nil, which disables the token
// blacklist and rate limiting.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, authRateLimit, authRateWindow))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		v1.GET("/health/reference-ranges", h.Display.ReferenceRanges)

		displays := v1.Group("/displays")
		{
			displays.GET("/smartwatch/:user_id", h.Display.Latest)
			displays.GET("/tv/:user_id", h.Display.Latest)
		}

		// authenticated
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.POST("/devices/token", h.Auth.SaveDeviceToken)
			authorized.DELETE("/account", h.Auth.DeleteAccount)

			authorized.POST("/records", h.Record.Create)
			authorized.POST("/medications", h.Record.CreateMedication)

			for _, rt := range handler.RecordRoutes {
				g := authorized.Group("/" + rt.Path)
				g.GET("", h.Record.List(rt.Type))
				g.GET("/:id", h.Record.Get(rt.Type))
				g.PUT("/:id", h.Record.Update(rt.Type))
				g.DELETE("/:id", h.Record.Delete(rt.Type))
			}

			authorized.GET("/notifications", h.Notification.List)

			deleteRequests := authorized.Group("/delete-requests")
			{
				deleteRequests.POST("/confirm", h.DeleteRequest.Confirm)
				deleteRequests.DELETE("/:id", h.DeleteRequest.Cancel)
			}

			export := authorized.Group("/export")
			{
				export.GET("/records.xlsx", h.Export.ExportRecords)
				export.GET("/medications.ics", h.Export.ExportMedications)
			}
		}
	}

	return r
}
