// Package github aggregates a user's contribution counts across the
// tracked Supabase repositories with one batched GraphQL search query.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"supapass/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	defaultGraphQLURL = "https://api.github.com/graphql"
	defaultAPIURL     = "https://api.github.com"
	userAgent         = "supapass-server"

	statsCacheTTL = 10 * time.Minute
)

// TrackedRepos is the fixed repository set contributions are counted
// against.
var TrackedRepos = []string{
	"supabase/postgres",
	"supabase/supabase",
	"supabase/edge-runtime",
	"supabase/storage",
	"supabase/cli",
	"supabase/auth",
}

type Client struct {
	httpClient *http.Client
	token      string
	graphqlURL string
	apiURL     string
	repos      []string
	rdb        *redis.Client
	logger     *zap.Logger
}

// New builds a client for the real GitHub API. rdb may be nil, in
// which case stats are fetched on every call.
func New(token string, rdb *redis.Client, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		token:      token,
		graphqlURL: defaultGraphQLURL,
		apiURL:     defaultAPIURL,
		repos:      TrackedRepos,
		rdb:        rdb,
		logger:     logger,
	}
}

// UserStats returns the aggregate and per-repo contribution counts for
// username. Any upstream failure degrades to an all-zero result with a
// zeroed per-repo breakdown; degraded reports which path was taken so
// callers can tell a real zero-contribution user from a failed fetch.
// Degraded results are never cached.
func (c *Client) UserStats(ctx context.Context, username string) (stats models.UserStats, degraded bool) {
	if cached, ok := c.cachedStats(ctx, username); ok {
		return cached, false
	}

	stats, err := c.fetchStats(ctx, username)
	if err != nil {
		c.logger.Warn("github stats fetch degraded to zeros",
			zap.String("username", username), zap.Error(err))
		return models.ZeroStats(c.repos), true
	}

	c.cacheStats(ctx, username, stats)
	return stats, false
}

var nonWord = regexp.MustCompile(`[^\w]+`)

func aliasify(slug string) string {
	return nonWord.ReplaceAllString(slug, "_")
}

// buildQuery assembles the batched GraphQL document: three global
// search fields over the whole repo set, three aliased fields per
// repo, plus the rate limit so quota use is visible in the logs.
func (c *Client) buildQuery(username string) (string, map[string]string) {
	author := "author:" + username

	repoQualifiers := make([]string, len(c.repos))
	for i, slug := range c.repos {
		repoQualifiers[i] = "repo:" + slug
	}
	allRepos := strings.Join(repoQualifiers, " ")

	variables := map[string]string{
		"qPrOpenAll":   fmt.Sprintf("%s %s is:pr is:open", author, allRepos),
		"qPrMergedAll": fmt.Sprintf("%s %s is:pr is:merged", author, allRepos),
		"qIssuesAll":   fmt.Sprintf("%s %s is:issue", author, allRepos),
	}

	fields := []string{
		`prsOpen: search(query: $qPrOpenAll, type: ISSUE, first: 1) { issueCount }`,
		`prsMerged: search(query: $qPrMergedAll, type: ISSUE, first: 1) { issueCount }`,
		`issuesAll: search(query: $qIssuesAll, type: ISSUE, first: 1) { issueCount }`,
		`rateLimit { cost remaining resetAt }`,
	}

	for _, slug := range c.repos {
		alias := aliasify(slug)
		for _, kind := range []string{"prsOpen", "prsMerged", "issuesAll"} {
			varName := fmt.Sprintf("q_%s_%s", alias, kind)
			fields = append(fields, fmt.Sprintf(
				"%s__%s: search(query: $%s, type: ISSUE, first: 1) { issueCount }",
				alias, kind, varName))
		}
		variables[fmt.Sprintf("q_%s_prsOpen", alias)] = fmt.Sprintf("%s repo:%s is:pr is:open", author, slug)
		variables[fmt.Sprintf("q_%s_prsMerged", alias)] = fmt.Sprintf("%s repo:%s is:pr is:merged", author, slug)
		variables[fmt.Sprintf("q_%s_issuesAll", alias)] = fmt.Sprintf("%s repo:%s is:issue", author, slug)
	}

	varNames := make([]string, 0, len(variables))
	for name := range variables {
		varNames = append(varNames, name)
	}
	sort.Strings(varNames)
	declarations := make([]string, len(varNames))
	for i, name := range varNames {
		declarations[i] = "$" + name + ": String!"
	}

	query := fmt.Sprintf("query SupapassPerRepo(%s) {\n  %s\n}",
		strings.Join(declarations, ", "), strings.Join(fields, "\n  "))
	return query, variables
}

type searchCount struct {
	IssueCount int `json:"issueCount"`
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) fetchStats(ctx context.Context, username string) (models.UserStats, error) {
	query, variables := c.buildQuery(username)

	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return models.UserStats{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return models.UserStats{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.UserStats{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.UserStats{}, fmt.Errorf("github api status %d", resp.StatusCode)
	}

	var parsed graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.UserStats{}, err
	}
	if len(parsed.Errors) > 0 {
		messages := make([]string, len(parsed.Errors))
		for i, e := range parsed.Errors {
			messages[i] = e.Message
		}
		return models.UserStats{}, fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	count := func(field string) int {
		raw, ok := parsed.Data[field]
		if !ok {
			return 0
		}
		var sc searchCount
		if err := json.Unmarshal(raw, &sc); err != nil {
			return 0
		}
		return sc.IssueCount
	}

	stats := models.UserStats{
		PRs:     count("prsOpen"),
		Merged:  count("prsMerged"),
		Issues:  count("issuesAll"),
		Details: make(map[string]models.RepoStats, len(c.repos)),
	}
	stats.Total = stats.PRs + stats.Merged + stats.Issues

	for _, slug := range c.repos {
		alias := aliasify(slug)
		repo := models.RepoStats{
			PRs:    count(alias + "__prsOpen"),
			Merged: count(alias + "__prsMerged"),
			Issues: count(alias + "__issuesAll"),
		}
		repo.Total = repo.PRs + repo.Merged + repo.Issues
		stats.Details[slug] = repo
	}

	c.logRateLimit(parsed.Data, username)
	return stats, nil
}

func (c *Client) logRateLimit(data map[string]json.RawMessage, username string) {
	raw, ok := data["rateLimit"]
	if !ok {
		return
	}
	var limit struct {
		Cost      int    `json:"cost"`
		Remaining int    `json:"remaining"`
		ResetAt   string `json:"resetAt"`
	}
	if err := json.Unmarshal(raw, &limit); err != nil {
		return
	}
	c.logger.Debug("github rate limit",
		zap.String("username", username),
		zap.Int("cost", limit.Cost),
		zap.Int("remaining", limit.Remaining),
		zap.String("resetAt", limit.ResetAt),
	)
}

func statsCacheKey(username string) string {
	return "stats:" + strings.ToLower(username)
}

func (c *Client) cachedStats(ctx context.Context, username string) (models.UserStats, bool) {
	if c.rdb == nil {
		return models.UserStats{}, false
	}
	raw, err := c.rdb.Get(ctx, statsCacheKey(username)).Bytes()
	if err != nil {
		return models.UserStats{}, false
	}
	var stats models.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return models.UserStats{}, false
	}
	return stats, true
}

func (c *Client) cacheStats(ctx context.Context, username string, stats models.UserStats) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, statsCacheKey(username), raw, statsCacheTTL).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.Error(err))
	}
}
