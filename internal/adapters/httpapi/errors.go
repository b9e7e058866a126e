package httpapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/example/desas/internal/ctxutil"
	"github.com/example/desas/internal/ports/primary"
)

// respondError maps a service error onto a redirect or a JSON error body.
func (h *handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, primary.ErrUnauthenticated):
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	case errors.Is(err, primary.ErrPermission):
		c.Redirect(http.StatusFound, "/unauthorized")
	case errors.Is(err, primary.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, primary.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed",
			"path", c.Request.URL.Path,
			"request_id", ctxutil.RequestIDFromContext(c.Request.Context()),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
