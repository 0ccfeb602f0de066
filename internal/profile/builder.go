package profile

import (
	"context"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/cache"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/provider"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/resolver"
)

const (
	// rollingWindow bounds how many recent games feed a rolling series
	rollingWindow = 30
	// sdFloor keeps short or flat samples from producing over-confident tails
	sdFloor = 6.0
)

// Builder assembles player and team profiles from provider data.
// Profiles are memoized per normalized name for the process lifetime.
type Builder struct {
	client   *provider.Client
	resolver *resolver.Resolver
	cache    *cache.Store
	season   int
	logger   *logrus.Entry
}

// NewBuilder creates a profile builder for the given season
func NewBuilder(client *provider.Client, res *resolver.Resolver, store *cache.Store, season int, logger *logrus.Logger) *Builder {
	return &Builder{
		client:   client,
		resolver: res,
		cache:    store,
		season:   season,
		logger:   logger.WithField("component", "profile"),
	}
}

// BuildPlayerProfile resolves a player name and summarizes their recent
// game log into rolling moments per tracked category. Returns
// models.ErrNotFound (wrapped) when the name resolves to nobody.
func (b *Builder) BuildPlayerProfile(ctx context.Context, name string) (*PlayerProfile, error) {
	cacheKey := "player:" + strings.ToLower(strings.TrimSpace(name))
	if cached, found := b.cache.Get(cacheKey); found {
		return cached.(*PlayerProfile), nil
	}

	resolved, err := b.resolver.ResolvePlayer(ctx, name)
	if err != nil {
		return nil, err
	}

	gameLog, err := b.client.PlayerGameLog(ctx, resolved.Player.ID.String(), b.season)
	if err != nil {
		return nil, err
	}

	rolling := make(map[StatCategory]Moments, len(playerKeywordChains))
	for cat, chains := range playerKeywordChains {
		rolling[cat] = rollingMoments(gameLog, chains, playerFallbacks[cat])
	}

	position := ""
	if resolved.Player.Position != nil {
		position = resolved.Player.Position.Abbreviation
	}
	teamID := resolved.TeamID
	if resolved.Player.Team != nil && resolved.Player.Team.ID != "" {
		teamID = resolved.Player.Team.ID.String()
	}

	p := &PlayerProfile{
		ID:       resolved.Player.ID.String(),
		Name:     resolved.Player.BestName(),
		Position: position,
		TeamID:   teamID,
		Rolling:  rolling,
	}

	b.logger.WithFields(logrus.Fields{
		"player":  p.Name,
		"team_id": p.TeamID,
	}).Debug("Built player profile")

	b.cache.Set(cacheKey, p)
	return p, nil
}

// BuildTeamProfile resolves a team name and summarizes its "allowed"
// aggregate statistics per tracked category.
func (b *Builder) BuildTeamProfile(ctx context.Context, name string) (*TeamProfile, error) {
	cacheKey := "team:" + strings.ToLower(strings.TrimSpace(name))
	if cached, found := b.cache.Get(cacheKey); found {
		return cached.(*TeamProfile), nil
	}

	team, err := b.resolver.ResolveTeam(ctx, name)
	if err != nil {
		return nil, err
	}

	stats, err := b.client.TeamStatistics(ctx, team.ID.String())
	if err != nil {
		return nil, err
	}

	allowed := make(map[StatCategory]Moments, len(teamAllowedSpecs))
	for cat, spec := range teamAllowedSpecs {
		allowed[cat] = allowedMoments(stats, spec.keywords, spec.fallback)
	}

	displayName := team.DisplayName
	if displayName == "" {
		displayName = name
	}

	t := &TeamProfile{
		ID:      team.ID.String(),
		Name:    displayName,
		Allowed: allowed,
	}

	b.logger.WithField("team", t.Name).Debug("Built team profile")

	b.cache.Set(cacheKey, t)
	return t, nil
}

// rollingMoments extracts a rolling series from a game log, trying each
// keyword set in order until one yields observations. Within a game the
// first matching entry wins.
func rollingMoments(gameLog *provider.GameLog, chains [][]string, fallback Moments) Moments {
	games := gameLog.Games()
	if len(games) > rollingWindow {
		games = games[:rollingWindow]
	}

	for _, keywords := range chains {
		var values []float64
		for i := range games {
			for _, entry := range games[i].Entries() {
				if !matchesAll(entry.MatchName(), keywords) {
					continue
				}
				if v, ok := entry.FloatValue(); ok {
					values = append(values, v)
				}
				break
			}
		}
		if len(values) > 0 {
			return summarize(values)
		}
	}

	return fallback
}

// allowedMoments scans a team's aggregate blocks for the category. A
// line whose name contains "sd" supplies the sd term independently.
func allowedMoments(stats *provider.TeamStats, keywords []string, fallback Moments) Moments {
	var avg, sd float64
	var haveAvg, haveSD bool

	for _, block := range stats.Blocks() {
		for _, entry := range block.Entries() {
			nm := strings.ToLower(entry.MatchName())
			if matchesAll(nm, keywords) {
				if v, ok := entry.FloatValue(); ok {
					avg, haveAvg = v, true
				}
			}
			if strings.Contains(nm, "sd") {
				if v, ok := entry.FloatValue(); ok {
					sd, haveSD = v, true
				}
			}
		}
	}

	result := fallback
	if haveAvg && avg != 0 {
		result.Avg = avg
	}
	if haveSD && sd != 0 {
		result.SD = sd
	}
	return result
}

// summarize computes the mean and sample standard deviation (n-1) of a
// series, flooring the sd. A single observation yields the floor.
func summarize(values []float64) Moments {
	n := float64(len(values))
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := sum / n

	variance := 0.0
	for _, v := range values {
		variance += (v - avg) * (v - avg)
	}
	variance /= math.Max(1, n-1)

	sd := math.Sqrt(variance)
	if sd < sdFloor {
		sd = sdFloor
	}
	return Moments{Avg: avg, SD: sd}
}

// matchesAll reports whether a stat name contains every keyword
func matchesAll(name string, keywords []string) bool {
	name = strings.ToLower(name)
	for _, k := range keywords {
		if !strings.Contains(name, k) {
			return false
		}
	}
	return true
}
