package models

import (
	"time"
)

// User mirrors the public profile fields of the auth provider's user
// record. UserName is the GitHub login the pass is generated for.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserName  string    `gorm:"uniqueIndex;not null" json:"userName"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
