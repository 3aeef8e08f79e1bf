package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/service"
)

// SellLoanUseCase transfers a loan's lender-of-record in exchange for a sale
// price paid buyer to seller. The borrower's obligations are untouched.
type SellLoanUseCase struct {
	loans     port.LoanRepository
	economy   port.Economy
	publisher port.EventPublisher
	engine    *service.LifecycleEngine
}

// NewSellLoanUseCase wires dependencies.
func NewSellLoanUseCase(
	loans port.LoanRepository,
	economy port.Economy,
	publisher port.EventPublisher,
	engine *service.LifecycleEngine,
) *SellLoanUseCase {
	return &SellLoanUseCase{
		loans:     loans,
		economy:   economy,
		publisher: publisher,
		engine:    engine,
	}
}

// Execute settles the sale price and records the transfer.
func (uc *SellLoanUseCase) Execute(
	ctx context.Context,
	req dto.SellLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	if err := uc.engine.Update(ctx, req.LoanID, now); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("update loan: %w", err)
	}
	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	if loan.Lender() != req.Seller {
		return dto.LoanResponse{}, errors.New("only the current lender can sell the loan")
	}

	if err := uc.economy.Withdraw(ctx, req.Buyer, req.Price); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("withdraw sale price: %w", err)
	}
	if err := uc.economy.Deposit(ctx, req.Seller, req.Price); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("deposit sale price: %w", err)
	}

	loan, err = loan.SellTo(req.Buyer, req.Price, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("sell loan: %w", err)
	}
	if err := uc.loans.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return loanToResponse(loan), nil
}
