package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"supapass/models"
	"supapass/store"
)

type refreshStore struct {
	store.Store // unused methods panic, keeping the fake honest

	passes  map[string]models.Pass
	users   map[string]models.User
	updated []string
}

func (r *refreshStore) ActivePasses(context.Context) ([]models.Pass, error) {
	var active []models.Pass
	for _, pass := range r.passes {
		if pass.IsActive {
			active = append(active, pass)
		}
	}
	return active, nil
}

func (r *refreshStore) UserByID(_ context.Context, id string) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *refreshStore) UpdatePassCounts(_ context.Context, passID string, stats models.UserStats, isCoreMember bool) error {
	pass := r.passes[passID]
	pass.MergedPullRequestsCount = stats.Merged
	pass.TotalContributionsCount = stats.Total
	pass.IsCoreMember = isCoreMember
	r.passes[passID] = pass
	r.updated = append(r.updated, passID)
	return nil
}

type fixedFetcher struct {
	stats    models.UserStats
	degraded bool
	member   bool
}

func (f fixedFetcher) UserStats(context.Context, string) (models.UserStats, bool) {
	return f.stats, f.degraded
}

func (f fixedFetcher) IsOrgMember(context.Context, string) bool {
	return f.member
}

type recordingNotifier struct {
	passes []models.Pass
}

func (n *recordingNotifier) NotifyPassUpdated(pass models.Pass) {
	n.passes = append(n.passes, pass)
}

func refreshFixture() *refreshStore {
	return &refreshStore{
		passes: map[string]models.Pass{
			"p-active":   {ID: "p-active", UserID: "u-1", IsActive: true},
			"p-inactive": {ID: "p-inactive", UserID: "u-1", IsActive: false},
		},
		users: map[string]models.User{
			"u-1": {ID: "u-1", UserName: "alice"},
		},
	}
}

func TestRefreshActivePassesUpdatesOnlyActive(t *testing.T) {
	s := refreshFixture()
	fetcher := fixedFetcher{stats: models.UserStats{Merged: 5, Total: 9}, member: true}
	notifier := &recordingNotifier{}

	RefreshActivePasses(s, fetcher, notifier, zap.NewNop())

	assert.Equal(t, []string{"p-active"}, s.updated)
	assert.Equal(t, 5, s.passes["p-active"].MergedPullRequestsCount)
	assert.True(t, s.passes["p-active"].IsCoreMember)
	assert.Zero(t, s.passes["p-inactive"].MergedPullRequestsCount)

	if assert.Len(t, notifier.passes, 1) {
		assert.Equal(t, "p-active", notifier.passes[0].ID)
		assert.Equal(t, 5, notifier.passes[0].MergedPullRequestsCount)
	}
}

func TestRefreshActivePassesSkipsDegradedFetch(t *testing.T) {
	s := refreshFixture()
	fetcher := fixedFetcher{stats: models.UserStats{}, degraded: true}
	notifier := &recordingNotifier{}

	RefreshActivePasses(s, fetcher, notifier, zap.NewNop())

	assert.Empty(t, s.updated)
	assert.Empty(t, notifier.passes)
}
