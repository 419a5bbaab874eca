package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// CheckSession reports whether the server still knows sessionToken.
// Any failure counts as not valid.
func (c *Client) CheckSession(ctx context.Context, sessionToken string) bool {
	if sessionToken == "" {
		return false
	}
	return c.exists(ctx, PathCheckSession, url.Values{"sessionToken": {sessionToken}})
}

// CheckJoinCode reports whether a room with joinCode exists.
func (c *Client) CheckJoinCode(ctx context.Context, joinCode string) bool {
	if joinCode == "" {
		return false
	}
	return c.exists(ctx, PathCheckJoinCode, url.Values{"JoinCode": {joinCode}})
}

// Stats fetches the server-wide counters shown in the lobby.
func (c *Client) Stats(ctx context.Context) (*StatsReply, error) {
	req, err := c.newRequest(ctx, http.MethodGet, PathStats, nil, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch stats: unexpected status %d", resp.StatusCode)
	}

	var stats StatsReply
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &stats, nil
}
