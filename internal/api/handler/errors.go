package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/logger"
)

// respondError maps validation errors to 400 with their message and
// everything else to a generic 500.
func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		logger.CtxDebug(c.Request.Context(), "Rejected request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
		return
	}

	logger.FromContext(c.Request.Context()).WithError(err).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
