package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"supapass/auth"
	"supapass/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetPass handles GET /v1/passes/:passTypeIdentifier/:serialNumber.
// The lookup is keyed by the full (serial, type, token) triple and the
// response never distinguishes a wrong token from an unknown serial.
func GetPass(c *gin.Context, s store.Store, generator PassGenerator, logger *zap.Logger) {
	passTypeIdentifier := c.Param("passTypeIdentifier")
	serialNumber := c.Param("serialNumber")

	authToken, err := auth.ParseApplePass(c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization"})
		return
	}

	ctx := c.Request.Context()
	pass, err := s.PassBySerialTypeToken(ctx, serialNumber, passTypeIdentifier, authToken)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pass not found"})
		return
	}
	if err != nil {
		logger.Error("pass lookup failed", zap.String("serial", serialNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching pass"})
		return
	}

	// The query already filtered on the token; re-check anyway before
	// handing out a signed archive.
	if pass.AuthenticationToken != authToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	user, err := s.UserByID(ctx, pass.UserID)
	if err != nil {
		logger.Error("pass owner lookup failed", zap.String("passId", pass.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating pass"})
		return
	}

	archive, err := generator.Generate(pass, user.UserName)
	if err != nil {
		generationFailuresTotal.Inc()
		logger.Error("pass generation failed", zap.String("passId", pass.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating pass"})
		return
	}

	passesGeneratedTotal.Inc()
	c.Header("Content-Length", strconv.Itoa(len(archive)))
	c.Data(http.StatusOK, pkpassContentType, archive)
}
