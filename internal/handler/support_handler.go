package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifedrop/internal/service/lifedrop"
)

type SupportHandler struct {
	svc    *lifedrop.Service
	logger *zap.Logger
}

func NewSupportHandler(svc *lifedrop.Service, logger *zap.Logger) *SupportHandler {
	return &SupportHandler{svc: svc, logger: logger}
}

// Submit handles POST /support
// The form touches no shared state, so it skips the event loop.
func (h *SupportHandler) Submit(c *gin.Context) {
	var req lifedrop.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	ack, err := h.svc.SubmitContact(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": ack})
}
