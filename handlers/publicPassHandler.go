package handlers

import (
	"errors"
	"net/http"
	"strings"

	"supapass/contribution"
	"supapass/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type publicPassRequest struct {
	PassID string `json:"passId"`
}

// PublicPass serves the shareable pass view: stats plus the owner's
// public profile fields. The pass id arrives either as a path segment
// (GET /passes/public/:passId) or in the body (POST /passes/public).
func PublicPass(c *gin.Context, s store.Store, logger *zap.Logger) {
	passID := strings.TrimSpace(c.Param("passId"))
	if passID == "" {
		var request publicPassRequest
		if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.PassID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing pass ID"})
			return
		}
		passID = strings.TrimSpace(request.PassID)
	}

	if _, err := uuid.Parse(passID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pass ID format"})
		return
	}

	ctx := c.Request.Context()
	pass, err := s.PassByID(ctx, passID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pass not found"})
		return
	}
	if err != nil {
		logger.Error("public pass lookup failed", zap.String("passId", passID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching pass"})
		return
	}

	user, err := s.UserByID(ctx, pass.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("pass owner lookup failed", zap.String("passId", passID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching pass"})
		return
	}

	// Mirror the shareable view's field set: stats and timestamps
	// only, no serial number and no activity flag.
	c.JSON(http.StatusOK, gin.H{
		"pass": gin.H{
			"id":                         pass.ID,
			"user_id":                    pass.UserID,
			"created_at":                 pass.CreatedAt,
			"updated_at":                 pass.UpdatedAt,
			"pull_requests_count":        pass.PullRequestsCount,
			"merged_pull_requests_count": pass.MergedPullRequestsCount,
			"issues_opened_count":        pass.IssuesOpenedCount,
			"total_contributions_count":  pass.TotalContributionsCount,
			"is_core_member":             pass.IsCoreMember,
		},
		"user": gin.H{
			"id":       user.ID,
			"userName": user.UserName,
			"photo":    user.Photo,
		},
		"level": contribution.LevelForPass(pass),
	})
}
