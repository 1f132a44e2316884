package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/astroinsight/internal/logger"
	"github.com/timmy/astroinsight/internal/service"
)

// CacheHandler exposes insight cache maintenance.
type CacheHandler struct {
	insights *service.InsightService
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(insights *service.InsightService) *CacheHandler {
	return &CacheHandler{insights: insights}
}

// Stats handles GET /api/cache/stats.
func (h *CacheHandler) Stats(c *gin.Context) {
	stats, err := h.insights.CacheStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Clear handles DELETE /api/cache.
func (h *CacheHandler) Clear(c *gin.Context) {
	if err := h.insights.ClearCache(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	logger.CtxInfo(c.Request.Context(), "Insight cache cleared: client_ip=%s", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
}

// Prune handles POST /api/cache/prune.
func (h *CacheHandler) Prune(c *gin.Context) {
	removed, err := h.insights.PruneCache(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	logger.With(logger.Fields{logger.FieldCount: removed}).
		Info(c.Request.Context(), "Stale insights pruned")
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
