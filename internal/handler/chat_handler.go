package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifedrop/internal/model"
	"lifedrop/internal/service/lifedrop"
)

type ChatHandler struct {
	loop   Runner
	svc    *lifedrop.Service
	logger *zap.Logger
}

func NewChatHandler(loop Runner, svc *lifedrop.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{loop: loop, svc: svc, logger: logger}
}

// Current handles GET /chat
func (h *ChatHandler) Current(c *gin.Context) {
	var th model.ChatThread
	var open bool
	if !run(c, h.loop, h.logger, func() { th, open = h.svc.CurrentChat() }) {
		return
	}
	if !open {
		c.JSON(http.StatusOK, gin.H{"open": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"open": true, "thread": th})
}

// Send handles POST /chat/:donor_id/messages
func (h *ChatHandler) Send(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	donorID := c.Param("donor_id")
	var th model.ChatThread
	var err error
	if !run(c, h.loop, h.logger, func() { th, err = h.svc.SendChat(donorID, req.Text) }) {
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"thread": th})
}

// Close handles DELETE /chat
func (h *ChatHandler) Close(c *gin.Context) {
	if !run(c, h.loop, h.logger, h.svc.CloseChat) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"open": false})
}
