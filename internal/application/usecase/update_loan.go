package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/service"
)

// UpdateLoanUseCase forces one loan current outside the sweep cadence.
type UpdateLoanUseCase struct {
	loans  port.LoanRepository
	engine *service.LifecycleEngine
}

// NewUpdateLoanUseCase wires dependencies.
func NewUpdateLoanUseCase(loans port.LoanRepository, engine *service.LifecycleEngine) *UpdateLoanUseCase {
	return &UpdateLoanUseCase{loans: loans, engine: engine}
}

// Execute dispatches the loan's due events and returns the resulting state.
func (uc *UpdateLoanUseCase) Execute(
	ctx context.Context,
	req dto.UpdateLoanRequest,
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
