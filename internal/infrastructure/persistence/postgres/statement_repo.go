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

// StatementRepo implements port.StatementRepository.
type StatementRepo struct {
	pool *pgxpool.Pool
}

// NewStatementRepo creates a new PostgreSQL-backed statement repository.
func NewStatementRepo(pool *pgxpool.Pool) *StatementRepo {
	return &StatementRepo{pool: pool}
}

// Save upserts a statement.
func (r *StatementRepo) Save(ctx context.Context, st model.Statement) error {
	query := `
		INSERT INTO statements (
			id, loan_id, bill, minimum, amount_paid,
			fees, interest, principal, issued_at, due_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			amount_paid = EXCLUDED.amount_paid
	`
	_, err := r.pool.Exec(ctx, query,
		st.ID(), st.LoanID(), st.Bill(), st.Minimum(), st.AmountPaid(),
		st.Fees(), st.Interest(), st.Principal(), st.IssuedAt(), st.DueAt(),
	)
	if err != nil {
		return port.NewPersistenceError("statement.save", err)
	}
	return nil
}

// FindLatest returns the most recently issued statement for a loan.
func (r *StatementRepo) FindLatest(ctx context.Context, loanID string) (model.Statement, error) {
	row := r.pool.QueryRow(ctx, statementSelect+`
		WHERE loan_id = $1
		ORDER BY issued_at DESC
		LIMIT 1
	`, loanID)
	st, err := scanStatementRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Statement{}, port.ErrStatementNotFound
	}
	if err != nil {
		return model.Statement{}, port.NewPersistenceError("statement.find_latest", err)
	}
	return st, nil
}

// FindByLoan returns all statements for a loan, newest first.
func (r *StatementRepo) FindByLoan(ctx context.Context, loanID string) ([]model.Statement, error) {
	rows, err := r.pool.Query(ctx, statementSelect+`
		WHERE loan_id = $1
		ORDER BY issued_at DESC
	`, loanID)
	if err != nil {
		return nil, port.NewPersistenceError("statement.query", err)
	}
	defer rows.Close()

	var statements []model.Statement
	for rows.Next() {
		st, err := scanStatementRow(rows)
		if err != nil {
			return nil, port.NewPersistenceError("statement.scan", err)
		}
		statements = append(statements, st)
	}
	return statements, rows.Err()
}

const statementSelect = `
	SELECT id, loan_id, bill, minimum, amount_paid,
	       fees, interest, principal, issued_at, due_at
	FROM statements
`

func scanStatementRow(s scannable) (model.Statement, error) {
	var (
		id, loanID                           string
		bill, minimum, paid                  decimal.Decimal
		fees, interest, principal            decimal.Decimal
		issuedAt, dueAt                      time.Time
	)
	err := s.Scan(&id, &loanID, &bill, &minimum, &paid, &fees, &interest, &principal, &issuedAt, &dueAt)
	if err != nil {
		return model.Statement{}, err
	}
	return model.ReconstructStatement(id, loanID, bill, minimum, paid, fees, interest, principal, issuedAt, dueAt), nil
}
