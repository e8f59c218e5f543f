package handlers

import (
	"net/http"

	"supapass/auth"
	"supapass/models"
	"supapass/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UnregisterDevice handles
// DELETE /v1/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier/:serialNumber.
// The device and pass lookups are independent, so they run
// concurrently and join before the deletes. The pass is marked
// inactive even when other devices still watch it: one pass maps to
// one user token, so in practice one device exists.
func UnregisterDevice(c *gin.Context, s store.Store, logger *zap.Logger) {
	deviceLibraryIdentifier := c.Param("deviceLibraryIdentifier")
	passTypeIdentifier := c.Param("passTypeIdentifier")
	serialNumber := c.Param("serialNumber")

	authToken, err := auth.ParseApplePass(c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization"})
		return
	}

	ctx := c.Request.Context()

	var (
		device    models.Device
		deviceErr error
		pass      models.Pass
		passErr   error
	)
	done := make(chan bool)
	go func() {
		device, deviceErr = s.DeviceByLibraryID(ctx, deviceLibraryIdentifier)
		done <- true
	}()
	go func() {
		pass, passErr = s.PassBySerialTypeToken(ctx, serialNumber, passTypeIdentifier, authToken)
		done <- true
	}()
	<-done
	<-done

	if deviceErr != nil || passErr != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Device or pass not found"})
		return
	}

	if err := s.UnregisterDevice(ctx, device.ID, pass.ID); err != nil {
		logger.Error("unregistration failed",
			zap.String("device", deviceLibraryIdentifier), zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Device or pass not found"})
		return
	}

	if err := s.SetPassActive(ctx, pass.ID, false); err != nil {
		logger.Error("pass deactivation failed", zap.String("passId", pass.ID), zap.Error(err))
	}

	unregistrationsTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Unregistration successful"})
}
