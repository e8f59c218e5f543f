package models

import (
	"time"
)

// Pass is one issued wallet pass: a single row per user and pass type.
// AuthenticationToken is the bearer secret presented by Apple Wallet
// devices and must never be written to logs.
type Pass struct {
	ID                      string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                  string    `gorm:"type:uuid;not null;index" json:"user_id"`
	SerialNumber            string    `gorm:"uniqueIndex;not null" json:"serial_number"`
	PassTypeIdentifier      string    `gorm:"not null" json:"pass_type_identifier"`
	AuthenticationToken     string    `gorm:"not null" json:"-"`
	PullRequestsCount       int       `gorm:"not null;default:0" json:"pull_requests_count"`
	MergedPullRequestsCount int       `gorm:"not null;default:0" json:"merged_pull_requests_count"`
	IssuesOpenedCount       int       `gorm:"not null;default:0" json:"issues_opened_count"`
	TotalContributionsCount int       `gorm:"not null;default:0" json:"total_contributions_count"`
	IsCoreMember            bool      `gorm:"not null;default:false" json:"is_core_member"`
	IsActive                bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}
