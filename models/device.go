package models

import (
	"time"
)

// Device is an Apple Wallet device known to the web service. The
// DeviceLibraryIdentifier is the opaque identifier Apple assigns; the
// push token may be refreshed on every registration request.
type Device struct {
	ID                      string    `gorm:"type:uuid;primaryKey" json:"id"`
	DeviceLibraryIdentifier string    `gorm:"uniqueIndex;not null" json:"device_library_identifier"`
	PushToken               string    `gorm:"not null" json:"push_token"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Registration links a device to a pass it wants update notifications
// for. A device may watch several passes and a pass may be watched by
// several devices. The row is deleted on unregister; when a device's
// last registration goes away the device row is deleted too.
type Registration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DeviceID  string    `gorm:"type:uuid;not null;index:idx_registrations_device_pass,unique" json:"device_id"`
	PassID    string    `gorm:"type:uuid;not null;index:idx_registrations_device_pass,unique" json:"pass_id"`
	CreatedAt time.Time `json:"created_at"`
}
