package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/valueobject"
)

// LoanEventRepo implements port.LoanEventRepository over the loan_events
// table. The type priority is denormalized into its own column so due events
// come back in dispatch order straight from the query.
type LoanEventRepo struct {
	pool *pgxpool.Pool
}

// NewLoanEventRepo creates a new PostgreSQL-backed event repository.
func NewLoanEventRepo(pool *pgxpool.Pool) *LoanEventRepo {
	return &LoanEventRepo{pool: pool}
}

// Append writes scheduled events. Re-appending an existing event ID is a
// no-op, so schedule writes are idempotent.
func (r *LoanEventRepo) Append(ctx context.Context, events ...model.ScheduledEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return port.NewPersistenceError("event.append.begin", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO loan_events (id, loan_id, scheduled_time, event_type, priority, amount, executed)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO NOTHING
	`
	for _, ev := range events {
		_, err := tx.Exec(ctx, query,
			ev.ID, ev.LoanID, ev.Time, ev.Type.String(), ev.Type.Priority(), ev.Amount, ev.Executed,
		)
		if err != nil {
			return port.NewPersistenceError("event.append", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return port.NewPersistenceError("event.append.commit", err)
	}
	return nil
}

// FindDue returns unexecuted events at or before the cutoff in dispatch
// order: scheduled time first, type priority breaking ties.
func (r *LoanEventRepo) FindDue(ctx context.Context, loanID string, cutoff time.Time) ([]model.ScheduledEvent, error) {
	query := `
		SELECT id, loan_id, scheduled_time, event_type, amount, executed
		FROM loan_events
		WHERE loan_id = $1 AND NOT executed AND scheduled_time <= $2
		ORDER BY scheduled_time, priority
	`
	return r.query(ctx, query, loanID, cutoff)
}

// MarkExecuted flips the executed flag and records the final amount.
func (r *LoanEventRepo) MarkExecuted(ctx context.Context, ev model.ScheduledEvent) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE loan_events SET executed = TRUE, amount = $2 WHERE id = $1 AND NOT executed`,
		ev.ID, ev.Amount,
	)
	if err != nil {
		return port.NewPersistenceError("event.mark_executed", err)
	}
	if tag.RowsAffected() == 0 {
		// Already executed; at-most-once holds.
		return nil
	}
	return nil
}

// LastExecutedAt is the accrual anchor: the latest executed event time.
func (r *LoanEventRepo) LastExecutedAt(ctx context.Context, loanID string) (time.Time, error) {
	var last *time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT MAX(scheduled_time) FROM loan_events WHERE loan_id = $1 AND executed`,
		loanID,
	).Scan(&last)
	if err != nil {
		return time.Time{}, port.NewPersistenceError("event.last_executed", err)
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}

// FindByLoan returns the loan's full timeline in dispatch order.
func (r *LoanEventRepo) FindByLoan(ctx context.Context, loanID string) ([]model.ScheduledEvent, error) {
	query := `
		SELECT id, loan_id, scheduled_time, event_type, amount, executed
		FROM loan_events
		WHERE loan_id = $1
		ORDER BY scheduled_time, priority
	`
	return r.query(ctx, query, loanID)
}

func (r *LoanEventRepo) query(ctx context.Context, query string, args ...any) ([]model.ScheduledEvent, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, port.NewPersistenceError("event.query", err)
	}
	defer rows.Close()

	var events []model.ScheduledEvent
	for rows.Next() {
		var (
			ev      model.ScheduledEvent
			typeStr string
			amount  decimal.Decimal
		)
		if err := rows.Scan(&ev.ID, &ev.LoanID, &ev.Time, &typeStr, &amount, &ev.Executed); err != nil {
			return nil, port.NewPersistenceError("event.scan", err)
		}
		eventType, err := valueobject.NewLoanEventType(typeStr)
		if err != nil {
			return nil, port.NewPersistenceError("event.parse_type", err)
		}
		ev.Type = eventType
		ev.Amount = amount
		events = append(events, ev)
	}
	return events, rows.Err()
}
