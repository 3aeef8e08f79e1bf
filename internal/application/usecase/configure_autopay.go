package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/service"
	"github.com/guildbank/lending/internal/domain/valueobject"
)

// ConfigureAutoPayUseCase changes how a loan's statements are paid. Only the
// borrower may flip the setting; the change lands in their credit history as
// a loan modification.
type ConfigureAutoPayUseCase struct {
	loans     port.LoanRepository
	scoring   *service.CreditScoringEngine
	publisher port.EventPublisher
	engine    *service.LifecycleEngine
}

// NewConfigureAutoPayUseCase wires dependencies.
func NewConfigureAutoPayUseCase(
	loans port.LoanRepository,
	scoring *service.CreditScoringEngine,
	publisher port.EventPublisher,
	engine *service.LifecycleEngine,
) *ConfigureAutoPayUseCase {
	return &ConfigureAutoPayUseCase{
		loans:     loans,
		scoring:   scoring,
		publisher: publisher,
		engine:    engine,
	}
}

// Execute brings the loan current, applies the setting, and records the
// modification.
func (uc *ConfigureAutoPayUseCase) Execute(
	ctx context.Context,
	req dto.ConfigureAutoPayRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	if err := uc.engine.Update(ctx, req.LoanID, now); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("update loan: %w", err)
	}
	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	if loan.Borrower() != req.Borrower {
		return dto.LoanResponse{}, errors.New("only the borrower can change autopay")
	}

	loan, err = loan.SetAutoPay(req.AutoPay, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("configure autopay: %w", err)
	}
	if err := uc.loans.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	if err := uc.scoring.RecordLoanActivity(ctx, loan.Borrower(), loan.ID(), valueobject.CreditEventLoanModify, now); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("record loan modification: %w", err)
	}
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return loanToResponse(loan), nil
}
