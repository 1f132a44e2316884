package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timmy/astroinsight/internal/service"
)

// ArchiveHandler searches archived insights.
type ArchiveHandler struct {
	archive *service.ArchiveService
}

// NewArchiveHandler creates a new archive handler. archive may be nil when
// the archive is not configured.
func NewArchiveHandler(archive *service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archive: archive}
}

// Search handles GET /api/archive/search?q=&sign=&language=&day=&limit=.
func (h *ArchiveHandler) Search(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "insight archive is not configured"})
		return
	}

	q := service.ArchiveQuery{
		Text:     c.Query("q"),
		Sign:     c.Query("sign"),
		Language: c.Query("language"),
		Day:      c.Query("day"),
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		q.Limit = n
	}

	hits, err := h.archive.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": hits, "count": len(hits)})
}
