package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guildbank/lending/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Terms – immutable loan/offer parameters
// ---------------------------------------------------------------------------

// Terms is an immutable value object describing a loan's financial behavior.
// A loan takes a private copy at creation, so later edits to a lender's
// prepared offer template never retroactively affect live loans.
type Terms struct {
	principal           decimal.Decimal
	interestRate        decimal.Decimal // per interest-reporting period
	term                time.Duration   // zero = open-ended
	compoundingPeriod   time.Duration   // zero = continuous compounding
	gracePeriod         time.Duration
	paymentTime         time.Duration // statement lead before a payment due
	paymentFrequency    time.Duration
	lateFee             decimal.Decimal
	minPayment          valueobject.MinPayment
	serviceFee          decimal.Decimal
	serviceFeeFrequency time.Duration
	loanType            valueobject.LoanType
}

// TermsParams carries the raw values for NewTerms.
type TermsParams struct {
	Principal           decimal.Decimal
	InterestRate        decimal.Decimal
	Term                time.Duration
	CompoundingPeriod   time.Duration
	GracePeriod         time.Duration
	PaymentTime         time.Duration
	PaymentFrequency    time.Duration
	LateFee             decimal.Decimal
	MinPayment          valueobject.MinPayment
	ServiceFee          decimal.Decimal
	ServiceFeeFrequency time.Duration
	LoanType            valueobject.LoanType
}

// NewTerms validates and creates a Terms value.
func NewTerms(p TermsParams) (Terms, error) {
	if p.Principal.LessThanOrEqual(decimal.Zero) {
		return Terms{}, errors.New("principal must be positive")
	}
	if p.InterestRate.IsNegative() {
		return Terms{}, errors.New("interest rate must not be negative")
	}
	if p.Term < 0 || p.CompoundingPeriod < 0 || p.GracePeriod < 0 || p.PaymentTime < 0 ||
		p.PaymentFrequency < 0 || p.ServiceFeeFrequency < 0 {
		return Terms{}, errors.New("durations must not be negative")
	}
	if p.Term > 0 && p.PaymentFrequency == 0 {
		return Terms{}, errors.New("payment frequency is required for a fixed-term loan")
	}
	if p.LateFee.IsNegative() || p.ServiceFee.IsNegative() {
		return Terms{}, errors.New("fees must not be negative")
	}

	return Terms{
		principal:           p.Principal,
		interestRate:        p.InterestRate,
		term:                p.Term,
		compoundingPeriod:   p.CompoundingPeriod,
		gracePeriod:         p.GracePeriod,
		paymentTime:         p.PaymentTime,
		paymentFrequency:    p.PaymentFrequency,
		lateFee:             p.LateFee,
		minPayment:          p.MinPayment,
		serviceFee:          p.ServiceFee,
		serviceFeeFrequency: p.ServiceFeeFrequency,
		loanType:            p.LoanType,
	}, nil
}

// ReconstructTerms rebuilds a Terms value from persistence without validation.
func ReconstructTerms(p TermsParams) Terms {
	return Terms{
		principal:           p.Principal,
		interestRate:        p.InterestRate,
		term:                p.Term,
		compoundingPeriod:   p.CompoundingPeriod,
		gracePeriod:         p.GracePeriod,
		paymentTime:         p.PaymentTime,
		paymentFrequency:    p.PaymentFrequency,
		lateFee:             p.LateFee,
		minPayment:          p.MinPayment,
		serviceFee:          p.ServiceFee,
		serviceFeeFrequency: p.ServiceFeeFrequency,
		loanType:            p.LoanType,
	}
}

// Snapshot returns an independent copy. Terms holds only value fields, so a
// plain copy is a deep copy; the method exists to make copy-on-accept explicit
// at call sites.
func (t Terms) Snapshot() Terms { return t }

// OpenEnded reports whether the loan has no fixed maturity.
func (t Terms) OpenEnded() bool { return t.term == 0 }

// ContinuousCompounding reports whether interest folds into principal
// continuously instead of at discrete compounding events.
func (t Terms) ContinuousCompounding() bool { return t.compoundingPeriod == 0 }

// PaymentCount returns the number of regular payment cadence points. The
// divisor is widened so a statement and its grace window never overlap the
// next cycle.
func (t Terms) PaymentCount() int {
	if t.term == 0 || t.paymentFrequency == 0 {
		return 0
	}
	interval := t.paymentFrequency
	if window := t.paymentTime + t.gracePeriod; window > interval {
		interval = window
	}
	return int(t.term / interval)
}

func (t Terms) Principal() decimal.Decimal           { return t.principal }
func (t Terms) InterestRate() decimal.Decimal        { return t.interestRate }
func (t Terms) Term() time.Duration                  { return t.term }
func (t Terms) CompoundingPeriod() time.Duration     { return t.compoundingPeriod }
func (t Terms) GracePeriod() time.Duration           { return t.gracePeriod }
func (t Terms) PaymentTime() time.Duration           { return t.paymentTime }
func (t Terms) PaymentFrequency() time.Duration      { return t.paymentFrequency }
func (t Terms) LateFee() decimal.Decimal             { return t.lateFee }
func (t Terms) MinPayment() valueobject.MinPayment   { return t.minPayment }
func (t Terms) ServiceFee() decimal.Decimal          { return t.serviceFee }
func (t Terms) ServiceFeeFrequency() time.Duration   { return t.serviceFeeFrequency }
func (t Terms) LoanType() valueobject.LoanType       { return t.loanType }

// Params exports the terms back into a TermsParams, used by persistence.
func (t Terms) Params() TermsParams {
	return TermsParams{
		Principal:           t.principal,
		InterestRate:        t.interestRate,
		Term:                t.term,
		CompoundingPeriod:   t.compoundingPeriod,
		GracePeriod:         t.gracePeriod,
		PaymentTime:         t.paymentTime,
		PaymentFrequency:    t.paymentFrequency,
		LateFee:             t.lateFee,
		MinPayment:          t.minPayment,
		ServiceFee:          t.serviceFee,
		ServiceFeeFrequency: t.serviceFeeFrequency,
		LoanType:            t.loanType,
	}
}
