package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/service"
)

// RecordBankruptcyUseCase declares an entity bankrupt. The declaration wipes
// the entity's credit standing in a single step.
type RecordBankruptcyUseCase struct {
	scoring *service.CreditScoringEngine
}

// NewRecordBankruptcyUseCase wires dependencies.
func NewRecordBankruptcyUseCase(scoring *service.CreditScoringEngine) *RecordBankruptcyUseCase {
	return &RecordBankruptcyUseCase{scoring: scoring}
}

// Execute records the bankruptcy and returns the resulting floor score.
func (uc *RecordBankruptcyUseCase) Execute(
	ctx context.Context,
	req dto.RecordBankruptcyRequest,
) (dto.CreditScoreResponse, error) {
	now := time.Now().UTC()

	if err := uc.scoring.RecordBankruptcy(ctx, req.EntityID, now); err != nil {
		return dto.CreditScoreResponse{}, fmt.Errorf("record bankruptcy: %w", err)
	}

	score, err := uc.scoring.Score(ctx, req.EntityID, now)
	if err != nil {
		return dto.CreditScoreResponse{}, fmt.Errorf("get score: %w", err)
	}

	return dto.CreditScoreResponse{
		EntityID:  score.EntityID,
		Score:     score.Value,
		RangeMin:  score.RangeMin,
		RangeMax:  score.RangeMax,
		UpdatedAt: score.UpdatedAt,
	}, nil
}
