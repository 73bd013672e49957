package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifedrop/internal/auth"
	"lifedrop/internal/service/lifedrop"
)

type AdminHandler struct {
	loop   Runner
	svc    *lifedrop.Service
	gate   *auth.AdminGate
	logger *zap.Logger
}

func NewAdminHandler(loop Runner, svc *lifedrop.Service, gate *auth.AdminGate, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{loop: loop, svc: svc, gate: gate, logger: logger}
}

// Unlock handles POST /admin/unlock
func (h *AdminHandler) Unlock(c *gin.Context) {
	var req struct {
		Key string `json:"key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, expiresAt, err := h.gate.Unlock(req.Key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}

// Export handles GET /export/:collection
func (h *AdminHandler) Export(c *gin.Context) {
	collection := c.Param("collection")
	var filename string
	var body []byte
	var err error
	if !run(c, h.loop, h.logger, func() { filename, body, err = h.svc.Export(collection) }) {
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json", body)
}
