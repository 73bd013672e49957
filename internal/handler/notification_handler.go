package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifedrop/internal/model"
	"lifedrop/internal/service/lifedrop"
)

type NotificationHandler struct {
	loop   Runner
	svc    *lifedrop.Service
	hub    *Hub
	logger *zap.Logger
}

func NewNotificationHandler(loop Runner, svc *lifedrop.Service, hub *Hub, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{loop: loop, svc: svc, hub: hub, logger: logger}
}

// Feed handles GET /notifications
func (h *NotificationHandler) Feed(c *gin.Context) {
	var feed []model.Notification
	if !run(c, h.loop, h.logger, func() { feed = h.svc.Feed() }) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": feed})
}

// Simulate handles POST /notifications/simulate
func (h *NotificationHandler) Simulate(c *gin.Context) {
	var n model.Notification
	ctx := taskContext(c)
	if !run(c, h.loop, h.logger, func() { n = h.svc.SimulateNotification(ctx) }) {
		return
	}
	c.JSON(http.StatusCreated, n)
}

// Dashboard handles GET /dashboard
func (h *NotificationHandler) Dashboard(c *gin.Context) {
	var entries []model.Notification
	var st model.Stats
	if !run(c, h.loop, h.logger, func() {
		entries = h.svc.Dashboard()
		st = h.svc.Stats()
	}) {
		return
	}

	lines := make([]string, 0, len(entries))
	for _, n := range entries {
		lines = append(lines, n.DashboardLine())
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":         st,
		"notifications": entries,
		"log":           lines,
	})
}

// Stream handles GET /ws/notifications. The current feed is sent first,
// then every new notification as it is recorded.
func (h *NotificationHandler) Stream(c *gin.Context) {
	var feed []model.Notification
	if !run(c, h.loop, h.logger, func() { feed = h.svc.Feed() }) {
		return
	}
	h.hub.Serve(c.Writer, c.Request, feed)
}
