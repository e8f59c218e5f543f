package middlewares

import (
	"net/http"
	"strings"

	"supapass/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by SessionAuth for downstream handlers.
const (
	ContextUserID   = "userID"
	ContextUserName = "userName"
)

// SessionAuth guards the application API with Bearer session tokens.
// On success the user's id and GitHub login are stored on the gin
// context.
func SessionAuth(secret []byte, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims, err := auth.ParseSessionToken(secret, tokenString)
		if err != nil {
			logger.Debug("session token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserName, claims.UserName)
		c.Next()
	}
}
