// Package contribution maps raw GitHub activity counts to a pass tier.
package contribution

import (
	"supapass/models"
)

// Tier labels, highest first. LevelLoading is a transient UI-only
// state for callers that have not resolved stats yet; it is never
// persisted.
const (
	LevelGold     = "Gold"
	LevelSilver   = "Silver"
	LevelBronze   = "Bronze"
	LevelNewcomer = "Newcomer"
	LevelLoading  = "Loading..."
)

// Level scores contribution counts. Rules are checked top-down and the
// first match wins: 3 merged PRs make Gold no matter what else, a
// single PR (open or closed) makes Silver, 3 opened issues make
// Bronze.
func Level(prs, merged, issues, total int) string {
	switch {
	case merged >= 3:
		return LevelGold
	case prs >= 1:
		return LevelSilver
	case issues >= 3:
		return LevelBronze
	default:
		return LevelNewcomer
	}
}

// LevelForStats scores a stats aggregate, returning the loading
// sentinel when the stats have not been fetched yet.
func LevelForStats(stats *models.UserStats) string {
	if stats == nil {
		return LevelLoading
	}
	return Level(stats.PRs, stats.Merged, stats.Issues, stats.Total)
}

// LevelForPass scores a persisted pass row.
func LevelForPass(pass models.Pass) string {
	return Level(pass.PullRequestsCount, pass.MergedPullRequestsCount,
		pass.IssuesOpenedCount, pass.TotalContributionsCount)
}
