package evaluation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/cache"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/logger"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/models"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/provider"
)

// stubPredictor returns canned probabilities keyed by bet label
type stubPredictor struct {
	probs    map[string]float64
	fallback float64
	err      error
}

func (s *stubPredictor) Predict(ctx context.Context, bet *models.Bet) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if p, ok := s.probs[bet.Label]; ok {
		return p, nil
	}
	return s.fallback, nil
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func newTestService(t *testing.T, predictor Predictor) (*Service, *int64) {
	t.Helper()

	var teamHits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&teamHits, 1)
		w.Write([]byte(`{"sports": []}`))
	}))
	t.Cleanup(server.Close)

	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)

	cfg := provider.DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	caches := &provider.Caches{
		Teams:     cache.NewStore("teams", time.Minute, 16),
		Rosters:   cache.NewStore("rosters", time.Minute, 16),
		GameLogs:  cache.NewStore("gamelogs", time.Minute, 16),
		TeamStats: cache.NewStore("teamstats", time.Minute, 16),
	}
	client := provider.NewClient(provider.NewRateLimitedHTTPClient(cfg, log), server.URL, server.URL, "", caches, log)

	stores := &Stores{
		Provider: caches,
		Resolver: cache.NewStore("resolver", time.Minute, 16),
		Profiles: cache.NewStore("profiles", time.Minute, 16),
	}

	return NewService(predictor, client, stores, nil, 2024, logger.NewEvalLogger(log)), &teamHits
}

func TestEvaluateSingle(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{fallback: 0.5})

	spec := BetSpec{
		Label:        "test moneyline",
		Market:       "moneyline",
		Stake:        100,
		AmericanOdds: intPtr(120),
		Team:         "Chiefs",
		OpponentTeam: "Bills",
	}

	result, err := svc.EvaluateSingle(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 220.0, result.PayoutIfWin)
	assert.Equal(t, 0.5, result.Probability)
	assert.Equal(t, "50.00%", result.ProbabilityPct)
	// EV = p(P-S) - (1-p)S = 0.5*120 - 0.5*100 = 10
	assert.Equal(t, 10.0, result.ExpectedValue)
	assert.False(t, result.EvaluatedAt.IsZero())
}

func TestEvaluateSingleEVIdentity(t *testing.T) {
	// EV = p(P-S) - (1-p)S must equal pP - S
	cases := []struct {
		p     float64
		stake float64
		odds  int
	}{
		{0.3, 50, 150},
		{0.62, 25, -110},
		{0.999, 10, 400},
	}

	for _, tc := range cases {
		svc, _ := newTestService(t, &stubPredictor{fallback: tc.p})
		spec := BetSpec{
			Market:       "moneyline",
			Stake:        tc.stake,
			AmericanOdds: intPtr(tc.odds),
			Team:         "Chiefs",
			OpponentTeam: "Bills",
		}
		result, err := svc.EvaluateSingle(context.Background(), spec)
		require.NoError(t, err)
		assert.InDelta(t, tc.p*result.PayoutIfWin-tc.stake, result.ExpectedValue, 0.01)
	}
}

func TestEvaluateSingleRounding(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{fallback: 0.5238095238})

	spec := BetSpec{
		Market:       "prop",
		Stake:        100,
		AmericanOdds: intPtr(-110),
		PropKind:     "wr_rec_yards",
		PropSide:     "over",
		PropLine:     floatPtr(85.5),
		PlayerName:   "Justin Jefferson",
		OpponentTeam: "Packers",
	}

	result, err := svc.EvaluateSingle(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 0.5238, result.Probability)
	assert.Equal(t, "52.38%", result.ProbabilityPct)
}

func TestEvaluateSingleDefaultLabel(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{fallback: 0.5})

	spec := BetSpec{
		Market:       "prop",
		Stake:        20,
		AmericanOdds: intPtr(-115),
		PropKind:     "wr_rec_yards",
		PropSide:     "over",
		PropLine:     floatPtr(85.5),
		PlayerName:   "Justin Jefferson",
		OpponentTeam: "Packers",
	}

	result, err := svc.EvaluateSingle(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, "Justin Jefferson OVER 85.5 wr_rec_yards vs Packers", result.Label)
}

func TestEvaluateSingleMissingPrice(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{fallback: 0.5})

	spec := BetSpec{
		Market:       "moneyline",
		Stake:        100,
		Team:         "Chiefs",
		OpponentTeam: "Bills",
	}

	_, err := svc.EvaluateSingle(context.Background(), spec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrPayoutUnresolved))
}

func TestEvaluateSinglePropValidation(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{fallback: 0.5})

	spec := BetSpec{
		Market:       "prop",
		Stake:        100,
		AmericanOdds: intPtr(-110),
		PlayerName:   "Justin Jefferson",
	}

	_, err := svc.EvaluateSingle(context.Background(), spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prop_line")
	assert.Contains(t, err.Error(), "opponent_team")
}

func TestEvaluateParlay(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{probs: map[string]float64{
		"leg a": 0.5,
		"leg b": 0.4,
	}})

	spec := ParlaySpec{
		Stake: 10,
		Legs: []BetSpec{
			{Label: "leg a", Market: "moneyline", Stake: 10, AmericanOdds: intPtr(100), Team: "Chiefs", OpponentTeam: "Bills"},
			{Label: "leg b", Market: "moneyline", Stake: 10, AmericanOdds: intPtr(-100), Team: "Eagles", OpponentTeam: "Cowboys"},
		},
	}

	result, err := svc.EvaluateParlay(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 0.2, result.CombinedProbability)
	assert.Equal(t, "20.00%", result.CombinedProbabilityPct)
	// Both legs carry decimal odds of 2.0
	assert.InDelta(t, 4.0, result.CombinedDecimalOdds, 1e-9)
	assert.Equal(t, 40.0, result.PayoutIfWin)
	// EV = 0.2*(40-10) - 0.8*10 = -2
	assert.Equal(t, -2.0, result.ExpectedValue)
	require.Len(t, result.Legs, 2)
	assert.Equal(t, 0.5, result.Legs[0].Probability)
	assert.NotEmpty(t, result.CorrelationNote)
}

func TestEvaluateParlayBadLeg(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{fallback: 0.5})

	spec := ParlaySpec{
		Stake: 10,
		Legs: []BetSpec{
			{Label: "ok", Market: "moneyline", Stake: 10, AmericanOdds: intPtr(100), Team: "Chiefs", OpponentTeam: "Bills"},
			{Label: "bad", Market: "moneyline", Stake: 10, Team: "Eagles", OpponentTeam: "Cowboys"},
		},
	}

	_, err := svc.EvaluateParlay(context.Background(), spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leg 2")
}

func TestEvaluateBatchIsolation(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{fallback: 0.5})

	spec := BatchSpec{
		Singles: []BetSpec{
			// Malformed: prop without its required fields
			{Market: "prop", Stake: 100, AmericanOdds: intPtr(-110)},
		},
		Parlays: []ParlaySpec{
			{
				Stake: 10,
				Legs: []BetSpec{
					{Label: "good leg", Market: "moneyline", Stake: 10, AmericanOdds: intPtr(100), Team: "Chiefs", OpponentTeam: "Bills"},
				},
			},
		},
	}

	batch := svc.EvaluateBatch(context.Background(), spec)
	require.Len(t, batch.Singles, 1)
	require.Len(t, batch.Parlays, 1)
	assert.NotEmpty(t, batch.Singles[0].Error)
	assert.Nil(t, batch.Singles[0].Result)
	assert.Empty(t, batch.Parlays[0].Error)
	require.NotNil(t, batch.Parlays[0].Result)
	assert.Equal(t, 0.5, batch.Parlays[0].Result.CombinedProbability)
}

func TestEvaluateBatchRejectsZeroOddsWithoutAbortingSiblings(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{fallback: 0.5})

	spec := BatchSpec{
		Singles: []BetSpec{
			{Market: "moneyline", Stake: 100, AmericanOdds: intPtr(0), Team: "Chiefs", OpponentTeam: "Bills"},
			{Market: "moneyline", Stake: 100, AmericanOdds: intPtr(-110), Team: "Bills", OpponentTeam: "Chiefs"},
		},
	}

	batch := svc.EvaluateBatch(context.Background(), spec)
	require.Len(t, batch.Singles, 2)
	assert.Contains(t, batch.Singles[0].Error, "american_odds")
	assert.Nil(t, batch.Singles[0].Result)
	require.NotNil(t, batch.Singles[1].Result)
	assert.Equal(t, 190.91, batch.Singles[1].Result.PayoutIfWin)
}

func TestSnapshot(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{fallback: 0.5})

	snap := svc.Snapshot()
	assert.Equal(t, 2024, snap.Season)
	assert.Len(t, snap.Caches, 6)
	assert.False(t, snap.StartedAt.IsZero())
}

func TestRefresh(t *testing.T) {
	svc, teamHits := newTestService(t, &stubPredictor{fallback: 0.5})

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, int64(1), atomic.LoadInt64(teamHits))

	// A second refresh flushes the cache, so the catalog is refetched
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, int64(2), atomic.LoadInt64(teamHits))
}
