package utils

import (
	"context"
	"time"

	"supapass/models"
	"supapass/store"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StatsFetcher is the slice of the GitHub client the refresher needs.
type StatsFetcher interface {
	UserStats(ctx context.Context, username string) (stats models.UserStats, degraded bool)
	IsOrgMember(ctx context.Context, username string) bool
}

// PassNotifier receives refreshed pass rows for live previews.
type PassNotifier interface {
	NotifyPassUpdated(pass models.Pass)
}

// CronRefresher periodically re-fetches contribution stats for every
// active pass so registered devices pick up changes on their next
// update poll. Degraded fetches leave the stored counts untouched.
func CronRefresher(s store.Store, fetcher StatsFetcher, notifier PassNotifier, logger *zap.Logger) {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		RefreshActivePasses(s, fetcher, notifier, logger)
	})

	c.Start()
}

// RefreshActivePasses runs one refresh sweep.
func RefreshActivePasses(s store.Store, fetcher StatsFetcher, notifier PassNotifier, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	passes, err := s.ActivePasses(ctx)
	if err != nil {
		logger.Error("active pass listing failed", zap.Error(err))
		return
	}

	refreshed := 0
	for _, pass := range passes {
		user, err := s.UserByID(ctx, pass.UserID)
		if err != nil {
			logger.Error("pass owner lookup failed", zap.String("passId", pass.ID), zap.Error(err))
			continue
		}

		stats, degraded := fetcher.UserStats(ctx, user.UserName)
		if degraded {
			// Zeroed counts from a failed fetch must not clobber real
			// contribution history.
			continue
		}
		isCoreMember := fetcher.IsOrgMember(ctx, user.UserName)

		if err := s.UpdatePassCounts(ctx, pass.ID, stats, isCoreMember); err != nil {
			logger.Error("pass refresh failed", zap.String("passId", pass.ID), zap.Error(err))
			continue
		}

		pass.PullRequestsCount = stats.PRs
		pass.MergedPullRequestsCount = stats.Merged
		pass.IssuesOpenedCount = stats.Issues
		pass.TotalContributionsCount = stats.Total
		pass.IsCoreMember = isCoreMember
		if notifier != nil {
			notifier.NotifyPassUpdated(pass)
		}
		refreshed++
	}

	logger.Info("active pass refresh complete",
		zap.Int("total", len(passes)), zap.Int("refreshed", refreshed))
}
