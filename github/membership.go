package github

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

const coreOrg = "supabase"

// IsOrgMember reports whether username is a public member of the core
// organization. 204 means member, 404 means not; any other status is
// logged and treated as not a member.
func (c *Client) IsOrgMember(ctx context.Context, username string) bool {
	url := fmt.Sprintf("%s/orgs/%s/members/%s", c.apiURL, coreOrg, username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Warn("membership request build failed", zap.Error(err))
		return false
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("membership check failed", zap.String("username", username), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return true
	case http.StatusNotFound:
		return false
	default:
		c.logger.Warn("membership check unexpected status",
			zap.String("username", username), zap.Int("status", resp.StatusCode))
		return false
	}
}
