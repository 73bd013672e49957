package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lifedrop/internal/auth"
	"lifedrop/internal/handler"
	"lifedrop/pkg/rbac"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Donors        *handler.DonorHandler
	Requests      *handler.RequestHandler
	Notifications *handler.NotificationHandler
	Actions       *handler.ActionHandler
	Chat          *handler.ChatHandler
	Support       *handler.SupportHandler
	Admin         *handler.AdminHandler
}

// ReadyCheck reports whether the storage backend is reachable.
type ReadyCheck func(ctx context.Context) error

func NewRouter(h Handlers, gate *auth.AdminGate, ready ReadyCheck, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(MetricsMiddleware())
	r.Use(RequestLogger(logger))

	// Health endpoints (放在最前面)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := ready(ctx); err != nil {
			c.JSON(500, gin.H{"status": "storage_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.GET("/donors", h.Donors.List)
	r.POST("/donors", h.Donors.Register)
	r.GET("/requests", h.Requests.List)
	r.POST("/requests", h.Requests.Submit)
	r.GET("/requests/latest/matches", h.Requests.LatestMatches)
	r.GET("/matches", h.Requests.Matches)
	r.POST("/emergency", h.Requests.Emergency)
	r.GET("/stats", h.Requests.Stats)

	r.GET("/notifications", h.Notifications.Feed)
	r.POST("/notifications/simulate", h.Notifications.Simulate)
	r.GET("/ws/notifications", h.Notifications.Stream)

	r.POST("/actions/:action/:id", h.Actions.Dispatch)
	r.GET("/chat", h.Chat.Current)
	r.POST("/chat/:donor_id/messages", h.Chat.Send)
	r.DELETE("/chat", h.Chat.Close)

	r.POST("/support", h.Support.Submit)
	r.POST("/admin/unlock", h.Admin.Unlock)

	// Admin only
	r.DELETE("/donors/:id", handler.RequirePermission(gate, rbac.PermissionDeleteDonor), h.Donors.Delete)
	r.DELETE("/requests/:id", handler.RequirePermission(gate, rbac.PermissionDeleteRequest), h.Requests.Delete)
	r.DELETE("/donors", handler.RequirePermission(gate, rbac.PermissionClearDonors), h.Donors.Clear)
	r.DELETE("/requests", handler.RequirePermission(gate, rbac.PermissionClearRequests), h.Requests.Clear)
	r.GET("/export/:collection", handler.RequirePermission(gate, rbac.PermissionExport), h.Admin.Export)
	r.GET("/dashboard", handler.RequirePermission(gate, rbac.PermissionReadDashboard), h.Notifications.Dashboard)

	return r
}
