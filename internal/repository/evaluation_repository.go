package repository

import (
	"context"
	"fmt"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/database"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/models"
)

// PostgresEvaluationRepository implements EvaluationRepository for PostgreSQL
type PostgresEvaluationRepository struct {
	db *database.DB
}

// NewPostgresEvaluationRepository creates a new evaluation repository
func NewPostgresEvaluationRepository(db *database.DB) EvaluationRepository {
	return &PostgresEvaluationRepository{db: db}
}

// Save inserts an evaluation outcome
func (r *PostgresEvaluationRepository) Save(ctx context.Context, result *models.EvaluationResult) error {
	query := `
		INSERT INTO evaluations (id, label, market, player, opponent, stake,
		                         payout_if_win, probability, expected_value, evaluated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		result.ID, result.Label, result.Market, result.Player, result.Opponent,
		result.Stake, result.PayoutIfWin, result.Probability, result.ExpectedValue,
		result.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}

	return nil
}

// ListRecent retrieves the most recent evaluations, newest first
func (r *PostgresEvaluationRepository) ListRecent(ctx context.Context, limit int) ([]*models.EvaluationResult, error) {
	query := `
		SELECT id, label, market, player, opponent, stake, payout_if_win,
		       probability, expected_value, evaluated_at
		FROM evaluations
		ORDER BY evaluated_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	var results []*models.EvaluationResult
	for rows.Next() {
		result := &models.EvaluationResult{}
		err := rows.Scan(
			&result.ID, &result.Label, &result.Market, &result.Player, &result.Opponent,
			&result.Stake, &result.PayoutIfWin, &result.Probability, &result.ExpectedValue,
			&result.EvaluatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		result.ProbabilityPct = fmt.Sprintf("%.2f%%", result.Probability*100)
		results = append(results, result)
	}

	return results, rows.Err()
}
