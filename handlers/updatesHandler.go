package handlers

import (
	"errors"
	"net/http"

	"supapass/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListUpdatedSerials handles
// GET /v1/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier.
// Per Apple's contract no token is required here; the opaque device
// identifier is the secret. An unknown device and an empty serial set
// both answer 204 so Wallet treats them identically as nothing to
// update.
func ListUpdatedSerials(c *gin.Context, s store.Store, logger *zap.Logger) {
	deviceLibraryIdentifier := c.Param("deviceLibraryIdentifier")
	passTypeIdentifier := c.Param("passTypeIdentifier")

	ctx := c.Request.Context()
	device, err := s.DeviceByLibraryID(ctx, deviceLibraryIdentifier)
	if errors.Is(err, store.ErrNotFound) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		logger.Error("device lookup failed",
			zap.String("device", deviceLibraryIdentifier), zap.Error(err))
		c.Status(http.StatusNoContent)
		return
	}

	serials, err := s.SerialsForDevice(ctx, device.ID, passTypeIdentifier)
	if err != nil {
		logger.Error("serial listing failed",
			zap.String("device", deviceLibraryIdentifier), zap.Error(err))
		c.Status(http.StatusNoContent)
		return
	}
	if len(serials) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, serials)
}
