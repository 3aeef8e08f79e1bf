package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/valueobject"
)

// scannable unifies pgx.Row and pgx.Rows for shared scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

// termsColumns is the flat column form of a terms snapshot. Durations are
// stored as nanosecond integers.
type termsColumns struct {
	principal       decimal.Decimal
	interestRate    decimal.Decimal
	termNS          int64
	compoundingNS   int64
	graceNS         int64
	paymentTimeNS   int64
	paymentFreqNS   int64
	lateFee         decimal.Decimal
	minPaymentValue decimal.Decimal
	minPaymentPct   bool
	serviceFee      decimal.Decimal
	serviceFeeNS    int64
	loanType        string
}

func (c termsColumns) toTerms() (model.Terms, error) {
	loanType, err := valueobject.NewLoanType(c.loanType)
	if err != nil {
		return model.Terms{}, err
	}
	minPayment, err := valueobject.NewMinPayment(c.minPaymentValue, c.minPaymentPct)
	if err != nil {
		return model.Terms{}, err
	}
	return model.ReconstructTerms(model.TermsParams{
		Principal:           c.principal,
		InterestRate:        c.interestRate,
		Term:                time.Duration(c.termNS),
		CompoundingPeriod:   time.Duration(c.compoundingNS),
		GracePeriod:         time.Duration(c.graceNS),
		PaymentTime:         time.Duration(c.paymentTimeNS),
		PaymentFrequency:    time.Duration(c.paymentFreqNS),
		LateFee:             c.lateFee,
		MinPayment:          minPayment,
		ServiceFee:          c.serviceFee,
		ServiceFeeFrequency: time.Duration(c.serviceFeeNS),
		LoanType:            loanType,
	}), nil
}

// saveTerms writes the immutable terms snapshot for a loan. The row is never
// updated after first insert.
func saveTerms(ctx context.Context, tx pgx.Tx, loanID string, t model.Terms) error {
	query := `
		INSERT INTO loan_terms (
			loan_id, principal, interest_rate, term_ns, compounding_ns, grace_ns,
			payment_time_ns, payment_freq_ns, late_fee,
			min_payment_value, min_payment_pct, service_fee, service_fee_ns, loan_type
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (loan_id) DO NOTHING
	`
	_, err := tx.Exec(ctx, query,
		loanID, t.Principal(), t.InterestRate(),
		int64(t.Term()), int64(t.CompoundingPeriod()), int64(t.GracePeriod()),
		int64(t.PaymentTime()), int64(t.PaymentFrequency()), t.LateFee(),
		t.MinPayment().Value(), t.MinPayment().Percentage(),
		t.ServiceFee(), int64(t.ServiceFeeFrequency()), t.LoanType().String(),
	)
	if err != nil {
		return port.NewPersistenceError("terms.save", err)
	}
	return nil
}
