package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
)

// LoanRepo implements port.LoanRepository. Loan state lives in loans; the
// immutable terms snapshot lives in loan_terms and is written once.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// Save persists a loan with optimistic version locking.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return port.NewPersistenceError("loan.save.begin", err)
	}
	defer tx.Rollback(ctx)

	loanQuery := `
		INSERT INTO loans (
			id, lender, borrower, balance, interest_balance, fee_balance,
			start_time, last_update, open, auto_pay, version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			lender           = EXCLUDED.lender,
			balance          = EXCLUDED.balance,
			interest_balance = EXCLUDED.interest_balance,
			fee_balance      = EXCLUDED.fee_balance,
			last_update      = EXCLUDED.last_update,
			open             = EXCLUDED.open,
			auto_pay         = EXCLUDED.auto_pay,
			version          = loans.version + 1
		WHERE loans.version = $11
	`
	tag, err := tx.Exec(ctx, loanQuery,
		loan.ID(), loan.Lender(), loan.Borrower(),
		loan.Balance(), loan.InterestBalance(), loan.FeeBalance(),
		loan.StartTime(), loan.LastUpdate(), loan.Open(), loan.AutoPay(),
		loan.Version(),
	)
	if err != nil {
		return port.NewPersistenceError("loan.save", err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrVersionConflict
	}

	if loan.Version() == 1 {
		if err := saveTerms(ctx, tx, loan.ID(), loan.Terms()); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return port.NewPersistenceError("loan.save.commit", err)
	}
	return nil
}

// FindByID retrieves a loan and its terms snapshot.
func (r *LoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	return r.findOne(ctx, `WHERE l.id = $1`, id)
}

// FindByBorrower retrieves all loans for a borrower, newest first.
func (r *LoanRepo) FindByBorrower(ctx context.Context, borrower string) ([]model.Loan, error) {
	return r.findMany(ctx, `WHERE l.borrower = $1 ORDER BY l.start_time DESC`, borrower)
}

// FindByLender retrieves all loans held by a lender, newest first.
func (r *LoanRepo) FindByLender(ctx context.Context, lender string) ([]model.Loan, error) {
	return r.findMany(ctx, `WHERE l.lender = $1 ORDER BY l.start_time DESC`, lender)
}

// FindOpenIDs lists open loans for the sweep, least recently updated first.
func (r *LoanRepo) FindOpenIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM loans WHERE open ORDER BY last_update`)
	if err != nil {
		return nil, port.NewPersistenceError("loan.find_open", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, port.NewPersistenceError("loan.find_open.scan", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

const loanSelect = `
	SELECT l.id, l.lender, l.borrower, l.balance, l.interest_balance, l.fee_balance,
	       l.start_time, l.last_update, l.open, l.auto_pay, l.version,
	       t.principal, t.interest_rate, t.term_ns, t.compounding_ns, t.grace_ns,
	       t.payment_time_ns, t.payment_freq_ns, t.late_fee,
	       t.min_payment_value, t.min_payment_pct, t.service_fee, t.service_fee_ns, t.loan_type
	FROM loans l
	JOIN loan_terms t ON t.loan_id = l.id
`

func (r *LoanRepo) findOne(ctx context.Context, where string, args ...any) (model.Loan, error) {
	row := r.pool.QueryRow(ctx, loanSelect+where, args...)
	loan, err := scanLoanRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, port.ErrLoanNotFound
	}
	if err != nil {
		return model.Loan{}, port.NewPersistenceError("loan.find", err)
	}
	return loan, nil
}

func (r *LoanRepo) findMany(ctx context.Context, where string, args ...any) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx, loanSelect+where, args...)
	if err != nil {
		return nil, port.NewPersistenceError("loan.query", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, port.NewPersistenceError("loan.scan", err)
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, lender, borrower               string
		balance, interestBalance, fee      decimal.Decimal
		startTime, lastUpdate              time.Time
		open, autoPay                      bool
		version                            int
		termsRow                           termsColumns
	)

	err := s.Scan(
		&id, &lender, &borrower, &balance, &interestBalance, &fee,
		&startTime, &lastUpdate, &open, &autoPay, &version,
		&termsRow.principal, &termsRow.interestRate, &termsRow.termNS, &termsRow.compoundingNS, &termsRow.graceNS,
		&termsRow.paymentTimeNS, &termsRow.paymentFreqNS, &termsRow.lateFee,
		&termsRow.minPaymentValue, &termsRow.minPaymentPct, &termsRow.serviceFee, &termsRow.serviceFeeNS, &termsRow.loanType,
	)
	if err != nil {
		return model.Loan{}, err
	}

	terms, err := termsRow.toTerms()
	if err != nil {
		return model.Loan{}, err
	}

	return model.ReconstructLoan(
		id, lender, borrower, terms,
		balance, interestBalance, fee,
		startTime, lastUpdate, open, autoPay, version,
	), nil
}
