package handlers

import (
	"net/http"
	"strings"

	"supapass/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statsRequest struct {
	Username string `json:"username"`
}

// Stats serves contribution stats for a GitHub login. Upstream
// failures never surface: the aggregator degrades to zeros and the
// endpoint still answers 200.
func Stats(c *gin.Context, service StatsService, logger *zap.Logger) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		var request statsRequest
		if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Username) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username"})
			return
		}
		username = strings.TrimSpace(request.Username)
	}

	ctx := c.Request.Context()
	stats, degraded := service.UserStats(ctx, username)
	if degraded {
		logger.Warn("serving degraded stats", zap.String("username", username))
	}
	isCoreMember := service.IsOrgMember(ctx, username)

	c.JSON(http.StatusOK, models.StatsResponse{
		Stats:        stats,
		IsCoreMember: isCoreMember,
	})
}
