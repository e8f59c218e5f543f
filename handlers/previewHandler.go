package handlers

import (
	"errors"
	"net/http"

	"supapass/realtime"
	"supapass/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PassPreviewFeed handles GET /ws/passes/:passId, upgrading to a
// WebSocket that streams pass-updated events to the preview page.
func PassPreviewFeed(c *gin.Context, s store.Store, hub *realtime.Hub, logger *zap.Logger) {
	passID := c.Param("passId")
	if _, err := uuid.Parse(passID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pass ID format"})
		return
	}

	if _, err := s.PassByID(c.Request.Context(), passID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pass not found"})
			return
		}
		logger.Error("pass lookup failed", zap.String("passId", passID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching pass"})
		return
	}

	if err := hub.HandleConnection(c.Writer, c.Request, passID); err != nil {
		logger.Error("websocket upgrade failed", zap.String("passId", passID), zap.Error(err))
	}
}
