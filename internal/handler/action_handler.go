package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifedrop/internal/auth"
	"lifedrop/internal/service/lifedrop"
	"lifedrop/internal/util"
	"lifedrop/pkg/rbac"
)

var actionPermissions = map[string]string{
	lifedrop.ActionContact:       rbac.PermissionContactDonor,
	lifedrop.ActionCopyPhone:     rbac.PermissionContactDonor,
	lifedrop.ActionViewRequest:   rbac.PermissionViewRequest,
	lifedrop.ActionDeleteDonor:   rbac.PermissionDeleteDonor,
	lifedrop.ActionDeleteRequest: rbac.PermissionDeleteRequest,
}

type ActionHandler struct {
	loop   Runner
	svc    *lifedrop.Service
	gate   *auth.AdminGate
	logger *zap.Logger
}

func NewActionHandler(loop Runner, svc *lifedrop.Service, gate *auth.AdminGate, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{loop: loop, svc: svc, gate: gate, logger: logger}
}

// Dispatch handles POST /actions/:action/:id
func (h *ActionHandler) Dispatch(c *gin.Context) {
	action := c.Param("action")
	id := c.Param("id")

	// unknown actions fall through to Dispatch, which rejects them
	if perm, ok := actionPermissions[action]; ok {
		role := h.gate.Role(util.ExtractToken(c.Request))
		if err := rbac.CheckPermission(role, perm); err != nil {
			respondPermissionError(c, role, err)
			return
		}
	}

	var res lifedrop.ActionResult
	var err error
	ctx := taskContext(c)
	if !run(c, h.loop, h.logger, func() { res, err = h.svc.Dispatch(ctx, action, id) }) {
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// respondPermissionError answers 401 when no valid token was presented and
// 403 when the token's role is simply not enough.
func respondPermissionError(c *gin.Context, role string, err error) {
	if role == rbac.RoleVisitor {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
		return
	}
	c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
}

// RequirePermission guards a route with an rbac permission.
func RequirePermission(gate *auth.AdminGate, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := gate.Role(util.ExtractToken(c.Request))
		if err := rbac.CheckPermission(role, permission); err != nil {
			respondPermissionError(c, role, err)
			c.Abort()
			return
		}
		c.Set("role", role)
		c.Next()
	}
}
