package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home answers the root path so load balancer probes and the curious
// get something friendly.
func Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"supapass": "me"})
}
