package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/event"
	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/service"
	"github.com/guildbank/lending/internal/domain/valueobject"
	"github.com/guildbank/lending/pkg/keymutex"
)

// AcceptOfferUseCase turns an open offer into a funded loan: the principal
// moves lender to borrower, the loan's full event schedule is written, and
// the acceptance lands in the borrower's credit history.
type AcceptOfferUseCase struct {
	offers    port.OfferRepository
	loans     port.LoanRepository
	events    port.LoanEventRepository
	economy   port.Economy
	scoring   *service.CreditScoringEngine
	publisher port.EventPublisher
	settings  port.Settings
	locks     *keymutex.KeyMutex
}

// NewAcceptOfferUseCase wires dependencies.
func NewAcceptOfferUseCase(
	offers port.OfferRepository,
	loans port.LoanRepository,
	events port.LoanEventRepository,
	economy port.Economy,
	scoring *service.CreditScoringEngine,
	publisher port.EventPublisher,
	settings port.Settings,
) *AcceptOfferUseCase {
	return &AcceptOfferUseCase{
		offers:    offers,
		loans:     loans,
		events:    events,
		economy:   economy,
		scoring:   scoring,
		publisher: publisher,
		settings:  settings,
		locks:     keymutex.New(),
	}
}

// Execute accepts the offer under its lock so two acceptances of the same
// offer cannot both fund.
func (uc *AcceptOfferUseCase) Execute(
	ctx context.Context,
	req dto.AcceptOfferRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	uc.locks.Lock(req.OfferID)
	defer uc.locks.Unlock(req.OfferID)

	offer, err := uc.offers.FindByID(ctx, req.OfferID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find offer: %w", err)
	}

	offer, terms, err := offer.Accept(req.Borrower, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("accept offer: %w", err)
	}

	// The principal moves before anything is persisted; a lender who cannot
	// fund the offer fails the acceptance outright.
	if err := uc.economy.Withdraw(ctx, offer.Lender(), terms.Principal()); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("withdraw principal: %w", err)
	}
	if err := uc.economy.Deposit(ctx, req.Borrower, terms.Principal()); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("deposit principal: %w", err)
	}

	loan, err := model.NewLoan(offer.Lender(), req.Borrower, terms, offer.AutoPay(), now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("create loan: %w", err)
	}

	if err := uc.loans.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}
	schedule := model.BuildSchedule(loan, uc.settings.Snapshot().InterestReportingPeriod)
	if err := uc.events.Append(ctx, schedule...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("write schedule: %w", err)
	}
	if err := uc.offers.Save(ctx, offer); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save offer: %w", err)
	}

	if err := uc.scoring.RecordLoanActivity(ctx, req.Borrower, loan.ID(), valueobject.CreditEventLoanOpen, now); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("record loan open: %w", err)
	}

	published := append(offer.DomainEvents(), event.NewOfferAccepted(offer.ID(), loan.ID(), req.Borrower))
	published = append(published, loan.DomainEvents()...)
	if err := uc.publisher.Publish(ctx, published...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return loanToResponse(loan), nil
}
