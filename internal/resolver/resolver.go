// Package resolver maps free-text team and player names onto provider
// identities using fuzzy matching over the team catalog and rosters.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/cache"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/logger"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/metrics"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/models"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/provider"
)

const (
	// teamMatchThreshold is the minimum partialRatio for a team match
	teamMatchThreshold = 65
	// playerMatchThreshold is the minimum blended score for a player match
	playerMatchThreshold = 0.55
	// rosterScanRate caps roster fetches during a league-wide player scan
	rosterScanRate = 20.0
)

// ResolvedPlayer is a player identity plus the team whose roster carried it
type ResolvedPlayer struct {
	Player provider.PlayerSummary
	TeamID string
}

// Resolver resolves names against provider data. Successful resolutions
// are memoized per normalized query.
type Resolver struct {
	client  *provider.Client
	limiter *rate.Limiter
	cache   *cache.Store
	logger  *logrus.Entry
	audit   *logger.EvalLogger
}

// New creates a resolver backed by the given provider client
func New(client *provider.Client, store *cache.Store, log *logrus.Logger) *Resolver {
	return &Resolver{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rosterScanRate), 1),
		cache:   store,
		logger:  log.WithField("component", "resolver"),
		audit:   logger.NewEvalLogger(log),
	}
}

// ResolveTeam finds the best team match for a free-text name. Returns
// models.ErrNotFound when no variant of any team clears the threshold.
func (r *Resolver) ResolveTeam(ctx context.Context, name string) (*provider.TeamSummary, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil, fmt.Errorf("team %q: %w", name, models.ErrNotFound)
	}

	cacheKey := "team:" + query
	if cached, found := r.cache.Get(cacheKey); found {
		team := cached.(provider.TeamSummary)
		return &team, nil
	}

	teams, err := r.client.ListTeams(ctx)
	if err != nil {
		return nil, err
	}

	bestScore := 0
	var best *provider.TeamSummary
	for i := range teams {
		for _, variant := range teams[i].NameVariants() {
			if s := partialRatio(query, variant); s > bestScore {
				bestScore = s
				best = &teams[i]
			}
		}
	}

	if best == nil || bestScore < teamMatchThreshold {
		metrics.RecordResolverMiss("team")
		r.audit.LogResolutionMiss("team", name, float64(bestScore))
		return nil, fmt.Errorf("team %q: %w", name, models.ErrNotFound)
	}

	r.cache.Set(cacheKey, *best)
	return best, nil
}

// ResolvePlayer scans every roster in the league for the best name
// match. The scan is throttled between rosters to stay polite to the
// provider. Returns models.ErrNotFound below the threshold.
func (r *Resolver) ResolvePlayer(ctx context.Context, name string) (*ResolvedPlayer, error) {
	tokens := tokenize(name)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("player %q: %w", name, models.ErrNotFound)
	}

	cacheKey := "player:" + strings.Join(tokens, " ")
	if cached, found := r.cache.Get(cacheKey); found {
		resolved := cached.(ResolvedPlayer)
		return &resolved, nil
	}

	teams, err := r.client.ListTeams(ctx)
	if err != nil {
		return nil, err
	}

	bestScore := 0.0
	var best *ResolvedPlayer
	for i := range teams {
		players, err := r.client.ListRoster(ctx, teams[i].ID.String())
		if err != nil {
			// A single bad roster should not sink a league-wide scan
			r.logger.WithError(err).WithField("team_id", teams[i].ID.String()).
				Warn("Skipping roster during player scan")
			continue
		}

		for j := range players {
			full := players[j].BestName()
			if full == "" {
				continue
			}
			if s := nameScore(tokens, full); s > bestScore {
				bestScore = s
				best = &ResolvedPlayer{Player: players[j], TeamID: teams[i].ID.String()}
			}
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if best == nil || bestScore < playerMatchThreshold {
		metrics.RecordResolverMiss("player")
		r.audit.LogResolutionMiss("player", name, bestScore)
		return nil, fmt.Errorf("player %q: %w", name, models.ErrNotFound)
	}

	r.cache.Set(cacheKey, *best)
	return best, nil
}
