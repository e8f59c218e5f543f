package store

import (
	"context"
	"errors"

	"supapass/models"
)

// ErrNotFound is returned by lookup methods when no row matches. The
// handlers translate it to 404 or the protocol's empty-result status.
var ErrNotFound = errors.New("store: not found")

// PassStore handles pass rows.
type PassStore interface {
	PassBySerialAndToken(ctx context.Context, serialNumber, authToken string) (models.Pass, error)
	PassBySerialTypeToken(ctx context.Context, serialNumber, passTypeIdentifier, authToken string) (models.Pass, error)
	PassByID(ctx context.Context, id string) (models.Pass, error)
	PassByUser(ctx context.Context, userID string) (models.Pass, error)
	UpsertPassForUser(ctx context.Context, userID, passTypeIdentifier string, stats models.UserStats, isCoreMember bool) (models.Pass, error)
	SetPassActive(ctx context.Context, passID string, active bool) error
	UpdatePassCounts(ctx context.Context, passID string, stats models.UserStats, isCoreMember bool) error
	ActivePasses(ctx context.Context) ([]models.Pass, error)
}

// DeviceStore handles device rows and their registrations.
type DeviceStore interface {
	DeviceByLibraryID(ctx context.Context, deviceLibraryIdentifier string) (models.Device, error)
	// RegisterDevice resolves or creates the device (refreshing its
	// push token when changed) and records the registration against
	// the pass. Registering the same pair twice is a no-op.
	RegisterDevice(ctx context.Context, deviceLibraryIdentifier, pushToken, passID string) error
	// UnregisterDevice removes the registration and garbage-collects
	// the device row when no registrations remain for it.
	UnregisterDevice(ctx context.Context, deviceID, passID string) error
	SerialsForDevice(ctx context.Context, deviceID, passTypeIdentifier string) ([]string, error)
}

// UserStore resolves public profile fields for pass personalization.
type UserStore interface {
	UserByID(ctx context.Context, id string) (models.User, error)
	UserByName(ctx context.Context, userName string) (models.User, error)
}

// Store is the full persistence surface of the web service.
type Store interface {
	PassStore
	DeviceStore
	UserStore
}
