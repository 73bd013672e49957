package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifedrop/internal/model"
	"lifedrop/internal/service/lifedrop"
)

type DonorHandler struct {
	loop   Runner
	svc    *lifedrop.Service
	logger *zap.Logger
}

func NewDonorHandler(loop Runner, svc *lifedrop.Service, logger *zap.Logger) *DonorHandler {
	return &DonorHandler{loop: loop, svc: svc, logger: logger}
}

// List handles GET /donors
func (h *DonorHandler) List(c *gin.Context) {
	var donors []model.Donor
	if !run(c, h.loop, h.logger, func() { donors = h.svc.Donors() }) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"donors": donors, "count": len(donors)})
}

// Register handles POST /donors
func (h *DonorHandler) Register(c *gin.Context) {
	var req lifedrop.DonorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var donor model.Donor
	var err error
	ctx := taskContext(c)
	if !run(c, h.loop, h.logger, func() { donor, err = h.svc.RegisterDonor(ctx, req) }) {
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"donor":   donor,
		"message": "Registration received! Added to donors.",
	})
}

// Delete handles DELETE /donors/:id
func (h *DonorHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	var removed bool
	ctx := taskContext(c)
	if !run(c, h.loop, h.logger, func() { removed = h.svc.DeleteDonor(ctx, id) }) {
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "donor not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

// Clear handles DELETE /donors
func (h *DonorHandler) Clear(c *gin.Context) {
	ctx := taskContext(c)
	if !run(c, h.loop, h.logger, func() { h.svc.ClearDonors(ctx) }) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
