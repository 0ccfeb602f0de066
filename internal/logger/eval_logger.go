// Package logger provides evaluation audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// EvalLogger provides dedicated logging for bet evaluation events.
type EvalLogger struct {
	*logrus.Entry
}

// NewEvalLogger creates a new evaluation logger.
func NewEvalLogger(baseLogger *logrus.Logger) *EvalLogger {
	return &EvalLogger{
		Entry: baseLogger.WithField("component", "evaluation"),
	}
}

// LogSingleEvaluation logs a completed single-bet evaluation.
func (el *EvalLogger) LogSingleEvaluation(label, market string, stake, payout, probability, expectedValue float64) {
	el.WithFields(logrus.Fields{
		"label":          label,
		"market":         market,
		"stake":          stake,
		"payout_if_win":  payout,
		"probability":    probability,
		"expected_value": expectedValue,
	}).Info("Single bet evaluated")
}

// LogParlayEvaluation logs a completed parlay evaluation.
func (el *EvalLogger) LogParlayEvaluation(legs int, stake, combinedProbability, combinedDecimalOdds, expectedValue float64) {
	el.WithFields(logrus.Fields{
		"legs":                  legs,
		"stake":                 stake,
		"combined_probability":  combinedProbability,
		"combined_decimal_odds": combinedDecimalOdds,
		"expected_value":        expectedValue,
	}).Info("Parlay evaluated")
}

// LogDegradation logs a graceful fallback to market-implied probability.
func (el *EvalLogger) LogDegradation(label, reason string) {
	el.WithFields(logrus.Fields{
		"label":  label,
		"reason": reason,
	}).Warn("Falling back to market-implied probability")
}

// LogResolutionMiss logs a failed entity resolution.
func (el *EvalLogger) LogResolutionMiss(kind, query string, bestScore float64) {
	el.WithFields(logrus.Fields{
		"kind":       kind,
		"query":      query,
		"best_score": bestScore,
	}).Warn("Entity resolution miss")
}
