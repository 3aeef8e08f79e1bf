package port

import (
	"context"
	"time"

	"github.com/guildbank/lending/internal/domain/event"
	"github.com/guildbank/lending/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanRepository persists and retrieves loans.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, id string) (model.Loan, error)
	FindByBorrower(ctx context.Context, borrower string) ([]model.Loan, error)
	FindByLender(ctx context.Context, lender string) ([]model.Loan, error)
	// FindOpenIDs lists open loans for the sweep, least recently updated
	// first, so the stalest loan is always brought current first.
	FindOpenIDs(ctx context.Context) ([]string, error)
}

// LoanEventRepository persists a loan's scheduled-event timeline.
type LoanEventRepository interface {
	Append(ctx context.Context, events ...model.ScheduledEvent) error
	// FindDue returns unexecuted events at or before the cutoff, ordered by
	// scheduled time and then by type priority.
	FindDue(ctx context.Context, loanID string, cutoff time.Time) ([]model.ScheduledEvent, error)
	// MarkExecuted flips the executed flag and records the final amount.
	MarkExecuted(ctx context.Context, ev model.ScheduledEvent) error
	// LastExecutedAt is the anchor for interest accrual proration.
	LastExecutedAt(ctx context.Context, loanID string) (time.Time, error)
	FindByLoan(ctx context.Context, loanID string) ([]model.ScheduledEvent, error)
}

// StatementRepository persists billing statements.
type StatementRepository interface {
	Save(ctx context.Context, st model.Statement) error
	FindLatest(ctx context.Context, loanID string) (model.Statement, error)
	FindByLoan(ctx context.Context, loanID string) ([]model.Statement, error)
}

// OfferRepository persists loan offers.
type OfferRepository interface {
	Save(ctx context.Context, offer model.Offer) error
	FindByID(ctx context.Context, id string) (model.Offer, error)
	FindOpenByBorrower(ctx context.Context, borrower string) ([]model.Offer, error)
	// FindExpired lists open offers whose deadline has passed.
	FindExpired(ctx context.Context, cutoff time.Time) ([]model.Offer, error)
}

// CreditHistoryRepository persists credit events and the derived scores.
type CreditHistoryRepository interface {
	AppendEvent(ctx context.Context, ev model.CreditEvent) error
	FindEvents(ctx context.Context, entityID string, limit int) ([]model.CreditEvent, error)
	SaveScore(ctx context.Context, score model.CreditScore) error
	FindScore(ctx context.Context, entityID string) (model.CreditScore, error)
}

// EntityStore resolves participants of the shared economy.
type EntityStore interface {
	Save(ctx context.Context, e model.Entity) error
	FindByID(ctx context.Context, id string) (model.Entity, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
