package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/astroinsight/internal/service"
)

// InsightHandler serves zodiac lookups and daily insights.
type InsightHandler struct {
	insights *service.InsightService
}

// NewInsightHandler creates a new insight handler.
// Parameters:
//   - insights: insight pipeline.
//
// Returns:
//   - *InsightHandler: initialized handler.
func NewInsightHandler(insights *service.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// Insight handles POST /api/insight.
func (h *InsightHandler) Insight(c *gin.Context) {
	var req service.InsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.insights.Handle(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Zodiac handles GET /api/zodiac?date=YYYY-MM-DD&language=en.
func (h *InsightHandler) Zodiac(c *gin.Context) {
	resp, err := h.insights.Zodiac(c.Request.Context(), c.Query("date"), c.Query("language"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Signs handles GET /api/signs?language=en.
func (h *InsightHandler) Signs(c *gin.Context) {
	signs, err := h.insights.Signs(c.Request.Context(), c.Query("language"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signs": signs, "count": len(signs)})
}
