package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/02loveslollipop/section-viewer/services/api/db"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// handleV1History lists recent runs from the run log
// GET /api/v1/history?limit=20
func (s *Server) handleV1History(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	if s.history == nil {
		c.JSON(http.StatusOK, gin.H{
			"data": []db.RunRecord{},
			"meta": gin.H{"count": 0, "enabled": false},
		})
		return
	}

	runs, err := s.history.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("run log read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []db.RunRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": runs,
		"meta": gin.H{"count": len(runs), "enabled": true, "limit": limit},
	})
}
