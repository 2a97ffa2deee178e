package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware requires a "Bearer <token>" header and stores the user ID
// under common.UserIDContextKey.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		userID, err := auth.GetUserIDFromToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(common.UserIDContextKey, userID)
		c.Next()
	}
}

// AccessFunc reports whether userID may touch the resource id.
type AccessFunc func(ctx context.Context, userID, id string) (bool, error)

// requireAccess checks the ":id" path parameter before the handler runs.
// Denied, missing and malformed ids look the same to the caller.
func (h *Handler) requireAccess(check AccessFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := uuid.Validate(id); err != nil {
			h.writeError(c, common.ErrorNotFound)
			return
		}

		ok, err := check(c.Request.Context(), c.GetString(common.UserIDContextKey), id)
		if err != nil {
			h.writeError(c, err)
			return
		}
		if !ok {
			h.writeError(c, common.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
