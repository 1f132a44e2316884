package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/logger"
	"github.com/timmy/astroinsight/internal/service"
)

// AdminHandler triggers almanac publication.
type AdminHandler struct {
	publisher *service.PublishService
	insights  *service.InsightService

	mu            sync.RWMutex
	isRunning     bool
	lastStats     *service.PublishStats
	lastRunTime   time.Time
	lastRunStatus string
}

// NewAdminHandler creates a new admin handler. publisher may be nil when
// object storage is not configured.
// Parameters:
//   - publisher: almanac publisher.
//   - insights: used to validate requested languages.
//
// Returns:
//   - *AdminHandler: initialized handler.
func NewAdminHandler(publisher *service.PublishService, insights *service.InsightService) *AdminHandler {
	return &AdminHandler{publisher: publisher, insights: insights}
}

// PublishRequest is the body of POST /api/admin/publish.
type PublishRequest struct {
	Languages []string `json:"languages"`
	Force     bool     `json:"force"`
}

// PublishStatusResponse describes the last publication.
type PublishStatusResponse struct {
	IsRunning     bool                  `json:"is_running"`
	LastRunTime   string                `json:"last_run_time,omitempty"`
	LastRunStatus string                `json:"last_run_status,omitempty"`
	LastStats     *service.PublishStats `json:"last_stats,omitempty"`
}

// TriggerPublish handles POST /api/admin/publish. Only one run at a time.
func (h *AdminHandler) TriggerPublish(c *gin.Context) {
	ctx := c.Request.Context()
	if h.publisher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object storage is not configured"})
		return
	}

	var req PublishRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	languages := make([]domain.Language, 0, len(req.Languages))
	for _, raw := range req.Languages {
		lang, err := h.insights.ResolveLanguage(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		languages = append(languages, lang)
	}

	h.mu.Lock()
	if h.isRunning {
		h.mu.Unlock()
		logger.CtxWarn(ctx, "Publish request rejected: already running, client_ip=%s", c.ClientIP())
		c.JSON(http.StatusConflict, gin.H{"error": "publication is already running"})
		return
	}
	h.isRunning = true
	h.mu.Unlock()

	// the run outlives a dropped HTTP connection
	stats, err := h.publisher.Publish(context.WithoutCancel(ctx), languages, &service.PublishOptions{Force: req.Force})

	h.mu.Lock()
	h.isRunning = false
	h.lastStats = stats
	h.lastRunTime = time.Now()
	if err != nil {
		h.lastRunStatus = "failed"
	} else {
		h.lastRunStatus = "success"
	}
	h.mu.Unlock()

	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("Almanac publication failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "publication failed", "stats": stats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "almanac published", "stats": stats})
}

// PublishStatus handles GET /api/admin/publish/status.
func (h *AdminHandler) PublishStatus(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	resp := PublishStatusResponse{
		IsRunning:     h.isRunning,
		LastRunStatus: h.lastRunStatus,
		LastStats:     h.lastStats,
	}
	if !h.lastRunTime.IsZero() {
		resp.LastRunTime = h.lastRunTime.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}
