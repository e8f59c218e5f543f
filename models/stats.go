package models

// RepoStats holds contribution counts against a single repository.
type RepoStats struct {
	PRs    int `json:"prs"`
	Merged int `json:"merged"`
	Issues int `json:"issues"`
	Total  int `json:"total"`
}

// UserStats is the aggregate over the tracked repository set plus the
// per-repository breakdown keyed by repo slug ("org/name").
type UserStats struct {
	PRs     int                  `json:"prs"`
	Merged  int                  `json:"merged"`
	Issues  int                  `json:"issues"`
	Total   int                  `json:"total"`
	Details map[string]RepoStats `json:"details"`
}

// StatsResponse is the payload of the stats endpoint.
type StatsResponse struct {
	Stats        UserStats `json:"stats"`
	IsCoreMember bool      `json:"isCoreMember"`
}

// ZeroStats returns an all-zero result with a zeroed entry for every
// tracked repository, the shape callers receive when the upstream
// fetch degrades.
func ZeroStats(repos []string) UserStats {
	details := make(map[string]RepoStats, len(repos))
	for _, slug := range repos {
		details[slug] = RepoStats{}
	}
	return UserStats{Details: details}
}
