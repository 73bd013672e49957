package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifedrop/internal/model"
	"lifedrop/internal/service/lifedrop"
)

type RequestHandler struct {
	loop   Runner
	svc    *lifedrop.Service
	logger *zap.Logger
}

func NewRequestHandler(loop Runner, svc *lifedrop.Service, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{loop: loop, svc: svc, logger: logger}
}

// List handles GET /requests
func (h *RequestHandler) List(c *gin.Context) {
	var receivers []model.Receiver
	if !run(c, h.loop, h.logger, func() { receivers = h.svc.Receivers() }) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": receivers, "count": len(receivers)})
}

// Submit handles POST /requests
func (h *RequestHandler) Submit(c *gin.Context) {
	var req lifedrop.RequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var res lifedrop.RequestResult
	var err error
	ctx := taskContext(c)
	if !run(c, h.loop, h.logger, func() { res, err = h.svc.SubmitRequest(ctx, req) }) {
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"request": res.Receiver,
		"matches": res.Matches,
		"message": "Request logged — matching donors below.",
	})
}

// LatestMatches handles GET /requests/latest/matches
func (h *RequestHandler) LatestMatches(c *gin.Context) {
	var res lifedrop.RequestResult
	var ok bool
	if !run(c, h.loop, h.logger, func() { res, ok = h.svc.LatestMatches() }) {
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"request": nil, "matches": res.Matches})
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": res.Receiver, "matches": res.Matches})
}

// Matches handles GET /matches?blood=
func (h *RequestHandler) Matches(c *gin.Context) {
	blood := c.Query("blood")
	var donors []model.Donor
	if !run(c, h.loop, h.logger, func() { donors = h.svc.MatchesFor(blood) }) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"blood": blood, "matches": donors})
}

// Emergency handles POST /emergency
func (h *RequestHandler) Emergency(c *gin.Context) {
	var res lifedrop.EmergencyResult
	ctx := taskContext(c)
	if !run(c, h.loop, h.logger, func() { res = h.svc.SendEmergency(ctx) }) {
		return
	}
	c.JSON(http.StatusOK, res)
}

// Stats handles GET /stats
func (h *RequestHandler) Stats(c *gin.Context) {
	var st model.Stats
	if !run(c, h.loop, h.logger, func() { st = h.svc.Stats() }) {
		return
	}
	c.JSON(http.StatusOK, st)
}

// Delete handles DELETE /requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	var removed bool
	ctx := taskContext(c)
	if !run(c, h.loop, h.logger, func() { removed = h.svc.DeleteRequest(ctx, id) }) {
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

// Clear handles DELETE /requests
func (h *RequestHandler) Clear(c *gin.Context) {
	ctx := taskContext(c)
	if !run(c, h.loop, h.logger, func() { h.svc.ClearRequests(ctx) }) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
