package models

import (
	"time"

	"github.com/google/uuid"
)

// EvaluationResult is the derived, read-only outcome of a single-bet
// evaluation. Probability is rounded to four decimal places, money values
// to cents.
type EvaluationResult struct {
	ID             uuid.UUID  `json:"id"`
	Label          string     `json:"label"`
	Market         MarketType `json:"market"`
	Player         string     `json:"player,omitempty"`
	Opponent       string     `json:"opponent,omitempty"`
	Stake          float64    `json:"stake"`
	PayoutIfWin    float64    `json:"payout_if_win"`
	Probability    float64    `json:"probability"`
	ProbabilityPct string     `json:"probability_pct"`
	ExpectedValue  float64    `json:"expected_value"`
	EvaluatedAt    time.Time  `json:"evaluated_at"`
}

// ParlayLegResult carries the per-leg breakdown within a parlay result
type ParlayLegResult struct {
	Label          string     `json:"label"`
	Market         MarketType `json:"market"`
	Probability    float64    `json:"probability"`
	ProbabilityPct string     `json:"probability_pct"`
	DecimalOdds    float64    `json:"decimal_odds"`
}

// ParlayResult is the derived outcome of a parlay evaluation. The combined
// probability is the product of independent leg probabilities.
type ParlayResult struct {
	ID                     uuid.UUID         `json:"id"`
	Stake                  float64           `json:"stake"`
	Legs                   []ParlayLegResult `json:"legs"`
	CombinedProbability    float64           `json:"combined_probability"`
	CombinedProbabilityPct string            `json:"combined_probability_pct"`
	CombinedDecimalOdds    float64           `json:"combined_decimal_odds"`
	PayoutIfWin            float64           `json:"payout_if_win"`
	ExpectedValue          float64           `json:"expected_value"`
	CorrelationNote        string            `json:"correlation_note"`
	EvaluatedAt            time.Time         `json:"evaluated_at"`
}

// SingleOutcome wraps a single evaluation in a batch; Error is set instead
// of Result when the item failed, so one bad entry never aborts siblings.
type SingleOutcome struct {
	Result *EvaluationResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// ParlayOutcome wraps a parlay evaluation in a batch
type ParlayOutcome struct {
	Result *ParlayResult `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// BatchResult aggregates independently evaluated singles and parlays
type BatchResult struct {
	Singles []SingleOutcome `json:"singles"`
	Parlays []ParlayOutcome `json:"parlays"`
}
