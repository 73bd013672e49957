package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifedrop/internal/auth"
	"lifedrop/internal/service/chat"
	"lifedrop/internal/service/lifedrop"
	"lifedrop/pkg/eventloop"
	"lifedrop/pkg/logger"
)

// Runner executes fn on the goroutine that owns domain state.
// eventloop.Loop implements it.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

// taskContext detaches the request context for use inside a loop task. The
// trace id survives; cancellation does not, since a task that has started
// always runs to completion.
func taskContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// run executes fn on the loop. fn must not touch c: read params and
// taskContext before calling run. When the request goes away while fn is
// still queued, fn never runs.
func run(c *gin.Context, loop Runner, log *zap.Logger, fn func()) bool {
	err := loop.Do(c.Request.Context(), fn)
	if err == nil {
		return true
	}
	l := logger.WithTrace(c.Request.Context(), log)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		l.Info("Request abandoned before the event loop ran it", zap.Error(err))
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled, nothing was changed"})
	case errors.Is(err, eventloop.ErrStopped):
		l.Warn("Event loop stopped", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service is shutting down"})
	default:
		l.Error("Event loop task failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
	return false
}

// respondError maps domain errors to status codes.
func respondError(c *gin.Context, err error) {
	var verr *lifedrop.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "fields": verr.Fields})
	case errors.Is(err, lifedrop.ErrNotFound), errors.Is(err, chat.ErrThreadUnknown):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, lifedrop.ErrUnknownAction), errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrAdminKeyInvalid), errors.Is(err, auth.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
