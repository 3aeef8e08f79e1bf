package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/service"
)

// GetCreditScoreUseCase returns an entity's published credit score.
type GetCreditScoreUseCase struct {
	scoring *service.CreditScoringEngine
}

// NewGetCreditScoreUseCase wires dependencies.
func NewGetCreditScoreUseCase(scoring *service.CreditScoringEngine) *GetCreditScoreUseCase {
	return &GetCreditScoreUseCase{scoring: scoring}
}

// Execute retrieves the score with inactivity decay brought current.
func (uc *GetCreditScoreUseCase) Execute(
	ctx context.Context,
	req dto.GetCreditScoreRequest,
) (dto.CreditScoreResponse, error) {
	now := time.Now().UTC()

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
