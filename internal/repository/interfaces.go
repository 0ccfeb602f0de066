// Package repository provides data access for the optional evaluation
// history store.
package repository

import (
	"context"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/models"
)

// EvaluationRepository defines the interface for evaluation history access
type EvaluationRepository interface {
	Save(ctx context.Context, result *models.EvaluationResult) error
	ListRecent(ctx context.Context, limit int) ([]*models.EvaluationResult, error)
}
