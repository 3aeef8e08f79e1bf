package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/guildbank/lending/internal/domain/event"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is the mutable ledger state of one peer-issued loan, bound to an
// immutable Terms snapshot and a lender/borrower pair. The aggregate is
// immutable in the Go sense: state transitions return a new copy. Loans are
// never deleted, only marked closed, and the open flag flips exactly when the
// close value reaches zero through payment application.
type Loan struct {
	id              string
	lender          string
	borrower        string
	terms           Terms
	balance         decimal.Decimal // outstanding principal
	interestBalance decimal.Decimal
	feeBalance      decimal.Decimal
	startTime       time.Time
	lastUpdate      time.Time
	open            bool
	autoPay         bool
	version         int
	domainEvents    []event.DomainEvent
}

// PaymentAllocation is the result of running a payment through the waterfall.
type PaymentAllocation struct {
	Fees      decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Excess    decimal.Decimal
}

// Applied returns the amount actually consumed by the waterfall.
func (a PaymentAllocation) Applied() decimal.Decimal {
	return a.Fees.Add(a.Interest).Add(a.Principal)
}

// NewLoan creates an open loan from an accepted offer. The Terms snapshot is
// copied so the lender's template can keep changing underneath.
func NewLoan(lender, borrower string, terms Terms, autoPay bool, now time.Time) (Loan, error) {
	if lender == "" {
		return Loan{}, errors.New("lender is required")
	}
	if borrower == "" {
		return Loan{}, errors.New("borrower is required")
	}
	if lender == borrower {
		return Loan{}, errors.New("lender and borrower must differ")
	}

	snapshot := terms.Snapshot()
	loan := Loan{
		id:              uuid.New().String(),
		lender:          lender,
		borrower:        borrower,
		terms:           snapshot,
		balance:         snapshot.Principal(),
		interestBalance: decimal.Zero,
		feeBalance:      decimal.Zero,
		startTime:       now,
		lastUpdate:      now,
		open:            true,
		autoPay:         autoPay,
		version:         1,
	}

	var maturity time.Time
	if !snapshot.OpenEnded() {
		maturity = now.Add(snapshot.Term())
	}
	loan.domainEvents = append(loan.domainEvents, event.NewLoanOpened(
		loan.id, lender, borrower, snapshot.Principal(), snapshot.LoanType().String(), maturity,
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, lender, borrower string,
	terms Terms,
	balance, interestBalance, feeBalance decimal.Decimal,
	startTime, lastUpdate time.Time,
	open, autoPay bool,
	version int,
) Loan {
	return Loan{
		id:              id,
		lender:          lender,
		borrower:        borrower,
		terms:           terms,
		balance:         balance,
		interestBalance: interestBalance,
		feeBalance:      feeBalance,
		startTime:       startTime,
		lastUpdate:      lastUpdate,
		open:            open,
		autoPay:         autoPay,
		version:         version,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// AccrueContinuous grows the principal balance directly, as continuous
// compounding folds interest in as it accrues.
func (l Loan) AccrueContinuous(delta decimal.Decimal, now time.Time) Loan {
	next := l
	next.balance = l.balance.Add(delta)
	next.lastUpdate = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next
}

// AccruePeriodic adds to the interest balance; principal is untouched until a
// compounding event folds the interest in.
func (l Loan) AccruePeriodic(delta decimal.Decimal, now time.Time) Loan {
	next := l
	next.interestBalance = l.interestBalance.Add(delta)
	next.lastUpdate = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next
}

// Compound folds the accumulated interest balance into principal and returns
// the amount moved.
func (l Loan) Compound(now time.Time) (Loan, decimal.Decimal) {
	moved := l.interestBalance
	next := l
	next.balance = l.balance.Add(moved)
	next.interestBalance = decimal.Zero
	next.lastUpdate = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next, moved
}

// AssessFee adds a fee to the fee balance.
func (l Loan) AssessFee(amount decimal.Decimal, now time.Time) Loan {
	next := l
	next.feeBalance = l.feeBalance.Add(amount)
	next.lastUpdate = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next
}

// ApplyPayment runs amount through the waterfall: fees, then interest, then
// principal, each step consuming what its bucket can absorb. Anything left
// after principal reaches zero is excess and is returned to the caller, never
// applied. When the close value reaches zero the loan closes.
func (l Loan) ApplyPayment(amount decimal.Decimal, now time.Time) (Loan, PaymentAllocation, error) {
	if !l.open {
		return l, PaymentAllocation{}, errors.New("loan is closed")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return l, PaymentAllocation{}, errors.New("payment amount must be positive")
	}

	remaining := amount
	var alloc PaymentAllocation

	alloc.Fees = decimal.Min(remaining, l.feeBalance)
	remaining = remaining.Sub(alloc.Fees)

	alloc.Interest = decimal.Min(remaining, l.interestBalance)
	remaining = remaining.Sub(alloc.Interest)

	alloc.Principal = decimal.Min(remaining, l.balance)
	alloc.Excess = remaining.Sub(alloc.Principal)

	next := l
	next.feeBalance = l.feeBalance.Sub(alloc.Fees)
	next.interestBalance = l.interestBalance.Sub(alloc.Interest)
	next.balance = l.balance.Sub(alloc.Principal)
	next.lastUpdate = now
	next.domainEvents = copyEvents(l.domainEvents)

	next.domainEvents = append(next.domainEvents, event.NewPaymentApplied(
		l.id, l.borrower, alloc.Fees, alloc.Interest, alloc.Principal, alloc.Excess, next.CloseValue(),
	))

	if next.CloseValue().IsZero() {
		next.open = false
		next.domainEvents = append(next.domainEvents, event.NewLoanClosed(l.id, l.borrower))
	}

	return next, alloc, nil
}

// SellTo transfers lender-of-record. A loan is sold at most once per call;
// balances and terms are untouched.
func (l Loan) SellTo(newLender string, salePrice decimal.Decimal, now time.Time) (Loan, error) {
	if !l.open {
		return l, errors.New("cannot sell a closed loan")
	}
	if newLender == "" || newLender == l.lender {
		return l, errors.New("new lender must be a different entity")
	}
	if newLender == l.borrower {
		return l, errors.New("borrower cannot buy their own loan")
	}

	next := l
	next.lender = newLender
	next.lastUpdate = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanSold(l.id, l.lender, newLender, salePrice))
	return next, nil
}

// SetAutoPay flips automatic statement payment on or off.
func (l Loan) SetAutoPay(enabled bool, now time.Time) (Loan, error) {
	if !l.open {
		return l, errors.New("cannot modify a closed loan")
	}
	next := l
	next.autoPay = enabled
	next.lastUpdate = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanModified(l.id, l.borrower, enabled))
	return next, nil
}

// Touch advances the last-update timestamp.
func (l Loan) Touch(now time.Time) Loan {
	next := l
	next.lastUpdate = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next
}

// Committed returns a copy whose version matches the stored row after a
// successful update, which bumps the row version by one. Callers that save
// the same aggregate more than once in a critical section must advance it
// between saves or hit the optimistic lock.
func (l Loan) Committed() Loan {
	next := l
	next.version = l.version + 1
	next.domainEvents = copyEvents(l.domainEvents)
	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                        { return l.id }
func (l Loan) Lender() string                    { return l.lender }
func (l Loan) Borrower() string                  { return l.borrower }
func (l Loan) Terms() Terms                      { return l.terms }
func (l Loan) Balance() decimal.Decimal          { return l.balance }
func (l Loan) InterestBalance() decimal.Decimal  { return l.interestBalance }
func (l Loan) FeeBalance() decimal.Decimal       { return l.feeBalance }
func (l Loan) StartTime() time.Time              { return l.startTime }
func (l Loan) LastUpdate() time.Time             { return l.lastUpdate }
func (l Loan) Open() bool                        { return l.open }
func (l Loan) AutoPay() bool                     { return l.autoPay }
func (l Loan) Version() int                      { return l.version }
func (l Loan) DomainEvents() []event.DomainEvent { return l.domainEvents }

// CloseValue is the sum of all outstanding balances; zero means fully retired.
func (l Loan) CloseValue() decimal.Decimal {
	return l.balance.Add(l.interestBalance).Add(l.feeBalance)
}

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(evs []event.DomainEvent) []event.DomainEvent {
	if evs == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(evs))
	copy(out, evs)
	return out
}
