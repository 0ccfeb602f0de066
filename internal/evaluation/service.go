// Package evaluation is the facade callers use to price wagers: single
// bets, parlays, and batches of both.
package evaluation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/cache"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/logger"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/metrics"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/models"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/provider"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/repository"
)

// Predictor estimates a bet's hit probability
type Predictor interface {
	Predict(ctx context.Context, bet *models.Bet) (float64, error)
}

// Stores aggregates every memoization cache the service can inspect
// and flush.
type Stores struct {
	Provider *provider.Caches
	Resolver *cache.Store
	Profiles *cache.Store
}

// Flush empties all caches
func (s *Stores) Flush() {
	s.Provider.Flush()
	s.Resolver.Flush()
	s.Profiles.Flush()
}

// All returns the individual stores for stat reporting
func (s *Stores) All() []*cache.Store {
	return []*cache.Store{
		s.Provider.Teams,
		s.Provider.Rosters,
		s.Provider.GameLogs,
		s.Provider.TeamStats,
		s.Resolver,
		s.Profiles,
	}
}

// CacheSnapshot reports one cache's state
type CacheSnapshot struct {
	Name     string  `json:"name"`
	Entries  int     `json:"entries"`
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
}

// Snapshot reports the service's runtime state
type Snapshot struct {
	Season    int             `json:"season"`
	StartedAt time.Time       `json:"started_at"`
	Caches    []CacheSnapshot `json:"caches"`
}

// Service evaluates wagers. It owns request validation, probability
// estimation via the engine, payout resolution, and the rounding
// contract on everything it returns.
type Service struct {
	predictor Predictor
	provider  *provider.Client
	stores    *Stores
	history   repository.EvaluationRepository
	validate  *validator.Validate
	season    int
	logger    *logger.EvalLogger
	startedAt time.Time
}

// NewService creates the evaluation facade. history may be nil when the
// evaluation history store is disabled.
func NewService(predictor Predictor, providerClient *provider.Client, stores *Stores, history repository.EvaluationRepository, season int, evalLogger *logger.EvalLogger) *Service {
	return &Service{
		predictor: predictor,
		provider:  providerClient,
		stores:    stores,
		history:   history,
		validate:  validator.New(),
		season:    season,
		logger:    evalLogger,
		startedAt: time.Now().UTC(),
	}
}

// EvaluateSingle prices one wager: hit probability, payout if the bet
// wins, and expected value.
func (s *Service) EvaluateSingle(ctx context.Context, spec BetSpec) (*models.EvaluationResult, error) {
	start := time.Now()

	if err := spec.Validate(s.validate); err != nil {
		metrics.RecordEvaluationError()
		return nil, err
	}

	bet := spec.ToBet()
	result, err := s.evaluateBet(ctx, bet)
	if err != nil {
		metrics.RecordEvaluationError()
		return nil, err
	}

	metrics.RecordEvaluation(string(bet.Market), time.Since(start).Seconds())
	s.logger.LogSingleEvaluation(result.Label, string(result.Market),
		result.Stake, result.PayoutIfWin, result.Probability, result.ExpectedValue)

	s.persist(ctx, result)
	return result, nil
}

// EvaluateParlay prices a multi-leg wager under an explicit
// independence assumption: combined probability is the product of leg
// probabilities, combined decimal odds the product of leg odds.
func (s *Service) EvaluateParlay(ctx context.Context, spec ParlaySpec) (*models.ParlayResult, error) {
	if err := s.validate.Struct(&spec); err != nil {
		metrics.RecordEvaluationError()
		return nil, fmt.Errorf("invalid parlay spec: %w", err)
	}

	combinedProb := 1.0
	combinedOdds := 1.0
	legs := make([]models.ParlayLegResult, 0, len(spec.Legs))

	for i := range spec.Legs {
		leg := &spec.Legs[i]
		if err := leg.Validate(s.validate); err != nil {
			metrics.RecordEvaluationError()
			return nil, fmt.Errorf("leg %d: %w", i+1, err)
		}

		bet := leg.ToBet()
		p, err := s.predictor.Predict(ctx, bet)
		if err != nil {
			metrics.RecordEvaluationError()
			return nil, fmt.Errorf("leg %d: %w", i+1, err)
		}

		odds, err := legDecimalOdds(bet)
		if err != nil {
			metrics.RecordEvaluationError()
			return nil, fmt.Errorf("leg %d: %w", i+1, err)
		}

		combinedProb *= p
		combinedOdds *= odds
		legs = append(legs, models.ParlayLegResult{
			Label:          bet.Label,
			Market:         bet.Market,
			Probability:    roundProbability(p),
			ProbabilityPct: percent(p),
			DecimalOdds:    odds,
		})
	}

	payout := roundCents(spec.Stake * combinedOdds)
	ev := combinedProb*(payout-spec.Stake) - (1-combinedProb)*spec.Stake

	result := &models.ParlayResult{
		ID:                     uuid.New(),
		Stake:                  roundCents(spec.Stake),
		Legs:                   legs,
		CombinedProbability:    roundProbability(combinedProb),
		CombinedProbabilityPct: percent(combinedProb),
		CombinedDecimalOdds:    combinedOdds,
		PayoutIfWin:            payout,
		ExpectedValue:          roundCents(ev),
		CorrelationNote:        "legs assumed independent; correlated legs overstate the combined probability",
		EvaluatedAt:            time.Now().UTC(),
	}

	metrics.RecordParlayEvaluation()
	s.logger.LogParlayEvaluation(len(legs), result.Stake,
		result.CombinedProbability, result.CombinedDecimalOdds, result.ExpectedValue)

	return result, nil
}

// EvaluateBatch evaluates every item independently. A failed item
// yields an error marker in its slot and never aborts its siblings.
func (s *Service) EvaluateBatch(ctx context.Context, spec BatchSpec) *models.BatchResult {
	batch := &models.BatchResult{
		Singles: make([]models.SingleOutcome, 0, len(spec.Singles)),
		Parlays: make([]models.ParlayOutcome, 0, len(spec.Parlays)),
	}

	for i := range spec.Singles {
		result, err := s.EvaluateSingle(ctx, spec.Singles[i])
		if err != nil {
			batch.Singles = append(batch.Singles, models.SingleOutcome{Error: err.Error()})
			continue
		}
		batch.Singles = append(batch.Singles, models.SingleOutcome{Result: result})
	}

	for i := range spec.Parlays {
		result, err := s.EvaluateParlay(ctx, spec.Parlays[i])
		if err != nil {
			batch.Parlays = append(batch.Parlays, models.ParlayOutcome{Error: err.Error()})
			continue
		}
		batch.Parlays = append(batch.Parlays, models.ParlayOutcome{Result: result})
	}

	metrics.RecordBatchEvaluation()
	return batch
}

// Snapshot reports the current cache and runtime state
func (s *Service) Snapshot() Snapshot {
	stores := s.stores.All()
	caches := make([]CacheSnapshot, 0, len(stores))
	for _, store := range stores {
		hits, misses, ratio := store.Stats()
		caches = append(caches, CacheSnapshot{
			Name:     store.Name(),
			Entries:  store.ItemCount(),
			Hits:     hits,
			Misses:   misses,
			HitRatio: ratio,
		})
	}

	return Snapshot{
		Season:    s.season,
		StartedAt: s.startedAt,
		Caches:    caches,
	}
}

// Refresh flushes every memoization cache and re-primes the team
// catalog so the next evaluation starts from fresh data.
func (s *Service) Refresh(ctx context.Context) error {
	s.stores.Flush()
	if _, err := s.provider.ListTeams(ctx); err != nil {
		return fmt.Errorf("failed to re-prime team catalog: %w", err)
	}
	return nil
}

// evaluateBet runs the core single-bet pipeline
func (s *Service) evaluateBet(ctx context.Context, bet *models.Bet) (*models.EvaluationResult, error) {
	payout, err := bet.ResolvePayout()
	if err != nil {
		return nil, err
	}

	p, err := s.predictor.Predict(ctx, bet)
	if err != nil {
		return nil, err
	}

	ev := p*(payout-bet.Stake) - (1-p)*bet.Stake

	return &models.EvaluationResult{
		ID:             uuid.New(),
		Label:          bet.Label,
		Market:         bet.Market,
		Player:         bet.PlayerName,
		Opponent:       bet.OpponentTeam,
		Stake:          roundCents(bet.Stake),
		PayoutIfWin:    payout,
		Probability:    roundProbability(p),
		ProbabilityPct: percent(p),
		ExpectedValue:  roundCents(ev),
		EvaluatedAt:    time.Now().UTC(),
	}, nil
}

// persist saves the result when a history store is configured. Failures
// are logged, never surfaced; history is best-effort.
func (s *Service) persist(ctx context.Context, result *models.EvaluationResult) {
	if s.history == nil {
		return
	}
	if err := s.history.Save(ctx, result); err != nil {
		s.logger.WithError(err).WithField("label", result.Label).
			Warn("Failed to persist evaluation history")
	}
}

// legDecimalOdds derives a leg's payout multiplier, preferring posted
// odds and falling back to the explicit payout ratio.
func legDecimalOdds(bet *models.Bet) (float64, error) {
	if odds := bet.DecimalOdds(); odds > 0 {
		return odds, nil
	}
	payout, err := bet.ResolvePayout()
	if err != nil {
		return 0, err
	}
	if bet.Stake <= 0 {
		return 0, models.ErrPayoutUnresolved
	}
	return payout / bet.Stake, nil
}

// roundProbability applies the four-decimal probability contract
func roundProbability(p float64) float64 {
	return math.Round(p*10000) / 10000
}

// percent formats a probability at 0.01% display precision
func percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

// roundCents rounds a monetary amount to two decimal places
func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
