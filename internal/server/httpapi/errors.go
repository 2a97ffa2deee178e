package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/gin-gonic/gin"
)

// writeError maps service errors to status codes. Anything unknown is
// logged and reported as a generic internal error.
func (h *Handler) writeError(c *gin.Context, err error) {
	status, msg := http.StatusInternalServerError, "internal error"

	switch {
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrForbidden):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrAlreadyExists):
		status, msg = http.StatusConflict, "already exists"
	case errors.Is(err, common.ErrorUnauthorized):
		status, msg = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrInvalidImage),
		errors.Is(err, common.ErrInvalidMimetype),
		errors.Is(err, common.ErrInvalidDocument):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrFileTooLarge):
		status, msg = http.StatusRequestEntityTooLarge, err.Error()
	default:
		h.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err.Error())
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
