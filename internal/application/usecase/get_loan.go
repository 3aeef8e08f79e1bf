package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/service"
)

// GetLoanUseCase returns a loan's current state. The read is lazy-updating:
// the loan is brought current before it is returned, so callers never see
// stale balances between sweeps.
type GetLoanUseCase struct {
	loans  port.LoanRepository
	engine *service.LifecycleEngine
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(loans port.LoanRepository, engine *service.LifecycleEngine) *GetLoanUseCase {
	return &GetLoanUseCase{loans: loans, engine: engine}
}

// Execute retrieves the loan.
func (uc *GetLoanUseCase) Execute(
	ctx context.Context,
	req dto.GetLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	if err := uc.engine.Update(ctx, req.LoanID, now); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("update loan: %w", err)
	}
	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	return loanToResponse(loan), nil
}
