package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
)

// OfferRepo implements port.OfferRepository. The proposed terms are stored
// inline on the offer row; they become a loan_terms row only on acceptance.
type OfferRepo struct {
	pool *pgxpool.Pool
}

// NewOfferRepo creates a new PostgreSQL-backed offer repository.
func NewOfferRepo(pool *pgxpool.Pool) *OfferRepo {
	return &OfferRepo{pool: pool}
}

// Save upserts an offer with optimistic version locking.
func (r *OfferRepo) Save(ctx context.Context, offer model.Offer) error {
	t := offer.Terms()
	query := `
		INSERT INTO offers (
			id, lender, borrower, auto_pay, status, created_at, expires_at, version,
			principal, interest_rate, term_ns, compounding_ns, grace_ns,
			payment_time_ns, payment_freq_ns, late_fee,
			min_payment_value, min_payment_pct, service_fee, service_fee_ns, loan_type
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (id) DO UPDATE SET
			status  = EXCLUDED.status,
			version = offers.version + 1
		WHERE offers.version = $8
	`
	tag, err := r.pool.Exec(ctx, query,
		offer.ID(), offer.Lender(), offer.Borrower(), offer.AutoPay(),
		string(offer.Status()), offer.CreatedAt(), offer.ExpiresAt(), offer.Version(),
		t.Principal(), t.InterestRate(), int64(t.Term()), int64(t.CompoundingPeriod()), int64(t.GracePeriod()),
		int64(t.PaymentTime()), int64(t.PaymentFrequency()), t.LateFee(),
		t.MinPayment().Value(), t.MinPayment().Percentage(), t.ServiceFee(), int64(t.ServiceFeeFrequency()), t.LoanType().String(),
	)
	if err != nil {
		return port.NewPersistenceError("offer.save", err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrVersionConflict
	}
	return nil
}

// FindByID retrieves one offer.
func (r *OfferRepo) FindByID(ctx context.Context, id string) (model.Offer, error) {
	row := r.pool.QueryRow(ctx, offerSelect+`WHERE id = $1`, id)
	offer, err := scanOfferRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Offer{}, port.ErrOfferNotFound
	}
	if err != nil {
		return model.Offer{}, port.NewPersistenceError("offer.find", err)
	}
	return offer, nil
}

// FindOpenByBorrower lists a borrower's open offers, soonest-expiring first.
func (r *OfferRepo) FindOpenByBorrower(ctx context.Context, borrower string) ([]model.Offer, error) {
	return r.findMany(ctx, `WHERE borrower = $1 AND status = 'OPEN' ORDER BY expires_at`, borrower)
}

// FindExpired lists open offers whose deadline has passed.
func (r *OfferRepo) FindExpired(ctx context.Context, cutoff time.Time) ([]model.Offer, error) {
	return r.findMany(ctx, `WHERE status = 'OPEN' AND expires_at <= $1 ORDER BY expires_at`, cutoff)
}

const offerSelect = `
	SELECT id, lender, borrower, auto_pay, status, created_at, expires_at, version,
	       principal, interest_rate, term_ns, compounding_ns, grace_ns,
	       payment_time_ns, payment_freq_ns, late_fee,
	       min_payment_value, min_payment_pct, service_fee, service_fee_ns, loan_type
	FROM offers
`

func (r *OfferRepo) findMany(ctx context.Context, where string, args ...any) ([]model.Offer, error) {
	rows, err := r.pool.Query(ctx, offerSelect+where, args...)
	if err != nil {
		return nil, port.NewPersistenceError("offer.query", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		offer, err := scanOfferRow(rows)
		if err != nil {
			return nil, port.NewPersistenceError("offer.scan", err)
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

func scanOfferRow(s scannable) (model.Offer, error) {
	var (
		id, lender, borrower string
		autoPay              bool
		status               string
		createdAt, expiresAt time.Time
		version              int
		termsRow             termsColumns
	)
	err := s.Scan(
		&id, &lender, &borrower, &autoPay, &status, &createdAt, &expiresAt, &version,
		&termsRow.principal, &termsRow.interestRate, &termsRow.termNS, &termsRow.compoundingNS, &termsRow.graceNS,
		&termsRow.paymentTimeNS, &termsRow.paymentFreqNS, &termsRow.lateFee,
		&termsRow.minPaymentValue, &termsRow.minPaymentPct, &termsRow.serviceFee, &termsRow.serviceFeeNS, &termsRow.loanType,
	)
	if err != nil {
		return model.Offer{}, err
	}

	terms, err := termsRow.toTerms()
	if err != nil {
		return model.Offer{}, err
	}
	return model.ReconstructOffer(id, lender, borrower, terms, autoPay, model.OfferStatus(status), createdAt, expiresAt, version), nil
}
