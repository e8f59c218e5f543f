// Package handlers implements the PassKit web service endpoints and
// the application/public API on top of the store, the GitHub
// aggregator and the pass generator.
package handlers

import (
	"context"

	"supapass/models"
)

// StatsService is the slice of the GitHub client the handlers need.
type StatsService interface {
	UserStats(ctx context.Context, username string) (stats models.UserStats, degraded bool)
	IsOrgMember(ctx context.Context, username string) bool
}

// PassGenerator produces a signed .pkpass archive for a pass row and
// the owner's display name.
type PassGenerator interface {
	Generate(pass models.Pass, userName string) ([]byte, error)
}

// PassNotifier receives pass rows whose counts changed so live
// previews can refresh.
type PassNotifier interface {
	NotifyPassUpdated(pass models.Pass)
}

const pkpassContentType = "application/vnd.apple.pkpass"
