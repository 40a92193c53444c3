package handler

import (
	"errors"
	"net/http"

	"deuda_tracker/internal/middleware"
	"deuda_tracker/internal/model"
	"deuda_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// getAuthUser returns the identity resolved by the session middleware.
func getAuthUser(c *gin.Context) (*model.AuthUser, error) {
	user := middleware.AuthUserFrom(c)
	if user == nil {
		return nil, errors.New("user not found in context")
	}
	return user, nil
}

// respondError maps service errors onto the HTTP error taxonomy. Anything
// outside the taxonomy is logged with a correlation id and surfaced as an
// opaque 500 so backing-store details never leak to the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrForbidden.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		reqID := uuid.NewString()
		logrus.WithField("req_id", reqID).WithError(err).Error("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "req_id": reqID})
	}
}
