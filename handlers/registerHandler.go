package handlers

import (
	"errors"
	"net/http"

	"supapass/auth"
	"supapass/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerRequest struct {
	PushToken string `json:"pushToken" binding:"required"`
}

// RegisterDevice handles
// POST /v1/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier/:serialNumber.
// The pass is looked up by serial number and bearer token together, so
// a wrong token is indistinguishable from an unknown serial.
func RegisterDevice(c *gin.Context, s store.Store, logger *zap.Logger) {
	deviceLibraryIdentifier := c.Param("deviceLibraryIdentifier")
	serialNumber := c.Param("serialNumber")

	authToken, err := auth.ParseApplePass(c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization"})
		return
	}

	var request registerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing push token"})
		return
	}

	ctx := c.Request.Context()
	pass, err := s.PassBySerialAndToken(ctx, serialNumber, authToken)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pass not found"})
		return
	}
	if err != nil {
		logger.Error("pass lookup failed", zap.String("serial", serialNumber), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error registering device"})
		return
	}

	if err := s.SetPassActive(ctx, pass.ID, true); err != nil {
		logger.Error("pass activation failed", zap.String("passId", pass.ID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error updating pass"})
		return
	}

	if err := s.RegisterDevice(ctx, deviceLibraryIdentifier, request.PushToken, pass.ID); err != nil {
		logger.Error("device registration failed",
			zap.String("device", deviceLibraryIdentifier), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error registering device"})
		return
	}

	registrationsTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Pass registered"})
}
