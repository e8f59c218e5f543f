package handlers

import (
	"net/http"
	"strconv"

	"supapass/middlewares"
	"supapass/models"
	"supapass/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GeneratePass handles POST /pass/generate for a signed-in user:
// fetch the user's current contribution stats, upsert the pass row,
// and stream back the freshly signed archive.
func GeneratePass(c *gin.Context, s store.Store, stats StatsService, generator PassGenerator, notifier PassNotifier, config models.Config, logger *zap.Logger) {
	userID := c.GetString(middlewares.ContextUserID)
	userName := c.GetString(middlewares.ContextUserName)
	if userID == "" || userName == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	userStats, degraded := stats.UserStats(ctx, userName)
	if degraded {
		logger.Warn("generating pass from degraded stats", zap.String("userName", userName))
	}
	isCoreMember := stats.IsOrgMember(ctx, userName)

	pass, err := s.UpsertPassForUser(ctx, userID, config.PassTypeIdentifier, userStats, isCoreMember)
	if err != nil {
		logger.Error("pass upsert failed", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error fetching pass"})
		return
	}

	archive, err := generator.Generate(pass, userName)
	if err != nil {
		generationFailuresTotal.Inc()
		logger.Error("pass generation failed", zap.String("passId", pass.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error generating pass"})
		return
	}

	if notifier != nil {
		notifier.NotifyPassUpdated(pass)
	}

	passesGeneratedTotal.Inc()
	c.Header("Content-Disposition", `attachment; filename=custom.pkpass`)
	c.Header("Cache-Control", "no-cache")
	c.Header("Content-Length", strconv.Itoa(len(archive)))
	c.Data(http.StatusOK, pkpassContentType, archive)
}
