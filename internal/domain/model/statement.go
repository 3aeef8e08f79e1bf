package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Statement is one billing cycle's snapshot for a loan: what is billed, the
// minimum that must arrive before the late-fee checkpoint, and what has been
// paid against it so far.
type Statement struct {
	id         string
	loanID     string
	bill       decimal.Decimal
	minimum    decimal.Decimal
	issuedAt   time.Time
	dueAt      time.Time
	amountPaid decimal.Decimal
	fees       decimal.Decimal
	interest   decimal.Decimal
	principal  decimal.Decimal
}

// NewStatement cuts a statement for a loan cycle. The breakdown fields record
// the composition of the bill at issue time.
func NewStatement(loanID string, bill, minimum, fees, interest, principal decimal.Decimal, issuedAt, dueAt time.Time) Statement {
	return Statement{
		id:         uuid.New().String(),
		loanID:     loanID,
		bill:       bill,
		minimum:    minimum,
		issuedAt:   issuedAt,
		dueAt:      dueAt,
		amountPaid: decimal.Zero,
		fees:       fees,
		interest:   interest,
		principal:  principal,
	}
}

// ReconstructStatement rebuilds a Statement from persistence.
func ReconstructStatement(id, loanID string, bill, minimum, amountPaid, fees, interest, principal decimal.Decimal, issuedAt, dueAt time.Time) Statement {
	return Statement{
		id:         id,
		loanID:     loanID,
		bill:       bill,
		minimum:    minimum,
		issuedAt:   issuedAt,
		dueAt:      dueAt,
		amountPaid: amountPaid,
		fees:       fees,
		interest:   interest,
		principal:  principal,
	}
}

// RecordPayment credits an applied payment amount against the statement.
func (s Statement) RecordPayment(applied decimal.Decimal) Statement {
	next := s
	next.amountPaid = s.amountPaid.Add(applied)
	return next
}

// Outstanding is the unpaid remainder of the bill, never negative.
func (s Statement) Outstanding() decimal.Decimal {
	out := s.bill.Sub(s.amountPaid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// MinimumMet reports whether payments so far cover the minimum due.
func (s Statement) MinimumMet() bool {
	return s.amountPaid.GreaterThanOrEqual(s.minimum)
}

// Settled reports whether the full bill has been covered.
func (s Statement) Settled() bool {
	return s.amountPaid.GreaterThanOrEqual(s.bill)
}

func (s Statement) ID() string                  { return s.id }
func (s Statement) LoanID() string              { return s.loanID }
func (s Statement) Bill() decimal.Decimal       { return s.bill }
func (s Statement) Minimum() decimal.Decimal    { return s.minimum }
func (s Statement) IssuedAt() time.Time         { return s.issuedAt }
func (s Statement) DueAt() time.Time            { return s.dueAt }
func (s Statement) AmountPaid() decimal.Decimal { return s.amountPaid }
func (s Statement) Fees() decimal.Decimal       { return s.fees }
func (s Statement) Interest() decimal.Decimal   { return s.interest }
func (s Statement) Principal() decimal.Decimal  { return s.principal }
