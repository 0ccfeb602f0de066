// Package engine estimates hit probabilities for wagers. Prop markets
// get a statistical model blended with the market-implied prior; every
// other market returns the prior directly.
package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/logger"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/metrics"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/models"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/profile"
)

// ProfileSource supplies player and team profiles for prop modeling
type ProfileSource interface {
	BuildPlayerProfile(ctx context.Context, name string) (*profile.PlayerProfile, error)
	BuildTeamProfile(ctx context.Context, name string) (*profile.TeamProfile, error)
}

// Engine computes hit probabilities. It never fails for missing
// enrichment data; absent profiles or unknown prop kinds degrade to
// the market-implied prior.
type Engine struct {
	profiles ProfileSource
	audit    *logger.EvalLogger
}

// New creates a probability engine
func New(profiles ProfileSource, log *logrus.Logger) *Engine {
	return &Engine{
		profiles: profiles,
		audit:    logger.NewEvalLogger(log),
	}
}

// Predict returns the bet's hit probability in (0,1). The only error
// case is a bet whose implied probability cannot be derived at all.
func (e *Engine) Predict(ctx context.Context, bet *models.Bet) (float64, error) {
	prior, err := bet.ImpliedProbability()
	if err != nil {
		return 0, err
	}

	if bet.Market != models.MarketProp {
		return prior, nil
	}

	kind := models.NormalizePropKind(string(bet.PropKind))
	if kind == "" || !bet.PropSide.IsValid() || bet.PropLine == nil {
		return prior, nil
	}

	spec, ok := propSpecs[kind]
	if !ok {
		metrics.RecordDegradedPrediction()
		e.audit.LogDegradation(bet.Label, "unknown prop kind "+string(kind))
		return prior, nil
	}

	player, opponent, ok := e.loadProfiles(ctx, bet)
	if !ok {
		return prior, nil
	}

	playerMoments := player.Stat(spec.playerStat)
	opponentMoments := opponent.Stat(spec.opponentStat)
	line := *bet.PropLine

	var p float64
	switch spec.template {
	case poissonTemplate:
		p = poissonProbability(playerMoments, opponentMoments, line, bet.PropSide)
	default:
		p = gaussianProbability(spec, playerMoments, opponentMoments, line, bet.PropSide)
	}

	return blendWithPrior(p, prior, modelWeight), nil
}

// loadProfiles builds both profiles, degrading to the prior when
// either name is absent or fails to resolve.
func (e *Engine) loadProfiles(ctx context.Context, bet *models.Bet) (*profile.PlayerProfile, *profile.TeamProfile, bool) {
	if bet.PlayerName == "" || bet.OpponentTeam == "" {
		return nil, nil, false
	}

	player, err := e.profiles.BuildPlayerProfile(ctx, bet.PlayerName)
	if err != nil {
		metrics.RecordDegradedPrediction()
		e.audit.LogDegradation(bet.Label, fmt.Sprintf("player profile unavailable: %v", err))
		return nil, nil, false
	}

	opponent, err := e.profiles.BuildTeamProfile(ctx, bet.OpponentTeam)
	if err != nil {
		metrics.RecordDegradedPrediction()
		e.audit.LogDegradation(bet.Label, fmt.Sprintf("opponent profile unavailable: %v", err))
		return nil, nil, false
	}

	return player, opponent, true
}

// gaussianProbability models a continuous output as a weighted normal
// combination of the player's rolling moments and the opponent-allowed
// moments scaled by the prop's usage share.
func gaussianProbability(spec propSpec, player, opponent profile.Moments, line float64, side models.PropSide) float64 {
	playerSD := math.Max(spec.playerSDMin, player.SD)
	opponentAvg, opponentSD := opponent.Avg, math.Max(spec.opponentSDMin, opponent.SD)
	if spec.scaleOpponentPoints {
		opponentAvg = math.Max(0.5, opponentAvg/10.0)
		opponentSD = math.Max(0.5, opponentSD/10.0)
	}

	mu := 0.7*player.Avg + 0.3*(opponentAvg*spec.share)
	variance := 0.49*playerSD*playerSD + 0.09*(opponentSD*spec.share)*(opponentSD*spec.share)
	sigma := math.Max(8.0, math.Sqrt(variance))

	if side == models.SideOver {
		return 1.0 - normalCDF(line, mu, sigma)
	}
	return normalCDF(line, mu, sigma)
}

// poissonProbability models a count output as Poisson with a rate
// blended from the player's per-game rate and the opponent-allowed
// rate, each floored to avoid zero-rate degeneracy.
func poissonProbability(player, opponent profile.Moments, line float64, side models.PropSide) float64 {
	playerRate := math.Max(0.05, player.Avg)
	opponentRate := math.Max(0.05, opponent.Avg)
	lambda := math.Max(0.05, 0.65*playerRate+0.35*opponentRate)

	// P(X >= ceil-equivalent of the line) via sf(line-1)
	pOver := poissonSurvival(line-1.0, lambda)
	if side == models.SideOver {
		return pOver
	}
	return 1.0 - pOver
}
