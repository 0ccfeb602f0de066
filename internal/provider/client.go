// Package provider implements the gateway to the external NFL statistics
// provider: team catalog, rosters, player game logs and team aggregates.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/cache"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/metrics"
)

const sourceName = "espn"

// Caches bundles the injected memoization stores, one per lookup kind
type Caches struct {
	Teams     *cache.Store
	Rosters   *cache.Store
	GameLogs  *cache.Store
	TeamStats *cache.Store
}

// Flush empties every lookup cache
func (c *Caches) Flush() {
	c.Teams.Flush()
	c.Rosters.Flush()
	c.GameLogs.Flush()
	c.TeamStats.Flush()
}

// Client fetches NFL data from the provider's public endpoints. Lookups
// are memoized in the injected caches; a cache hit never touches the
// network.
type Client struct {
	httpClient *RateLimitedHTTPClient
	siteAPIURL string
	webAPIURL  string
	apiKey     string
	caches     *Caches
	logger     *logrus.Logger
}

// NewClient creates a new provider client
func NewClient(httpClient *RateLimitedHTTPClient, siteAPIURL, webAPIURL, apiKey string, caches *Caches, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		siteAPIURL: siteAPIURL,
		webAPIURL:  webAPIURL,
		apiKey:     apiKey,
		caches:     caches,
		logger:     logger,
	}
}

// ListTeams retrieves the league's team catalog
func (c *Client) ListTeams(ctx context.Context) ([]TeamSummary, error) {
	const cacheKey = "all"
	if cached, found := c.caches.Teams.Get(cacheKey); found {
		return cached.([]TeamSummary), nil
	}

	var envelope teamsResponse
	if err := c.getJSON(ctx, "teams", fmt.Sprintf("%s/teams", c.siteAPIURL), &envelope); err != nil {
		return nil, err
	}

	teams := make([]TeamSummary, 0, 32)
	for _, sport := range envelope.Sports {
		for _, league := range sport.Leagues {
			for _, item := range league.Teams {
				if team := item.unwrap(); team != nil {
					teams = append(teams, *team)
				}
			}
		}
	}

	c.caches.Teams.Set(cacheKey, teams)
	return teams, nil
}

// ListRoster retrieves the roster for a team
func (c *Client) ListRoster(ctx context.Context, teamID string) ([]PlayerSummary, error) {
	if cached, found := c.caches.Rosters.Get(teamID); found {
		return cached.([]PlayerSummary), nil
	}

	var envelope rosterResponse
	if err := c.getJSON(ctx, "roster", fmt.Sprintf("%s/teams/%s/roster", c.siteAPIURL, teamID), &envelope); err != nil {
		return nil, err
	}

	var players []PlayerSummary
	for _, group := range envelope.Athletes {
		players = append(players, group.Items...)
	}

	c.caches.Rosters.Set(teamID, players)
	return players, nil
}

// PlayerGameLog retrieves a player's per-game stat history for a season
func (c *Client) PlayerGameLog(ctx context.Context, playerID string, season int) (*GameLog, error) {
	cacheKey := fmt.Sprintf("%s:%d", playerID, season)
	if cached, found := c.caches.GameLogs.Get(cacheKey); found {
		return cached.(*GameLog), nil
	}

	gameLog := &GameLog{}
	url := fmt.Sprintf("%s/athletes/%s/gamelog?season=%d", c.webAPIURL, playerID, season)
	if err := c.getJSON(ctx, "gamelog", url, gameLog); err != nil {
		return nil, err
	}

	c.caches.GameLogs.Set(cacheKey, gameLog)
	return gameLog, nil
}

// TeamStatistics retrieves a team's aggregate statistics
func (c *Client) TeamStatistics(ctx context.Context, teamID string) (*TeamStats, error) {
	if cached, found := c.caches.TeamStats.Get(teamID); found {
		return cached.(*TeamStats), nil
	}

	stats := &TeamStats{}
	url := fmt.Sprintf("%s/teams/%s/statistics", c.siteAPIURL, teamID)
	if err := c.getJSON(ctx, "team_statistics", url, stats); err != nil {
		return nil, err
	}

	c.caches.TeamStats.Set(teamID, stats)
	return stats, nil
}

// Ping verifies provider reachability by fetching the team catalog
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListTeams(ctx)
	return err
}

// getJSON executes a GET request and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, endpoint, url string, out interface{}) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewProviderError(sourceName, ErrCodeNetworkError, "failed to create request", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		metrics.RecordProviderError(endpoint)
		return NewProviderError(sourceName, ErrCodeNetworkError, "failed to fetch "+endpoint, err)
	}
	defer resp.Body.Close()

	metrics.RecordProviderRequest(endpoint, time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordProviderError(endpoint)
		return NewProviderError(sourceName, ErrCodeNotFound, endpoint+" not found", nil)
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.RecordProviderError(endpoint)
		return NewProviderError(sourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.RecordProviderError(endpoint)
		return NewProviderError(sourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		metrics.RecordProviderError(endpoint)
		body, _ := io.ReadAll(resp.Body)
		return NewProviderError(sourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewProviderError(sourceName, ErrCodeInvalidData, "failed to parse "+endpoint+" response", err)
	}

	return nil
}
