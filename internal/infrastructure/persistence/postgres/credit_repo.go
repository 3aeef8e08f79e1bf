package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/valueobject"
)

// CreditRepo implements port.CreditHistoryRepository. Events are an
// append-only audit trail; the derived score row stores the output range it
// was scaled with so range changes can migrate lazily.
type CreditRepo struct {
	pool *pgxpool.Pool
}

// NewCreditRepo creates a new PostgreSQL-backed credit history repository.
func NewCreditRepo(pool *pgxpool.Pool) *CreditRepo {
	return &CreditRepo{pool: pool}
}

// AppendEvent writes one credit history entry.
func (r *CreditRepo) AppendEvent(ctx context.Context, ev model.CreditEvent) error {
	query := `
		INSERT INTO credit_events (id, entity_id, event_type, value, weight, loan_id, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		ev.ID, ev.EntityID, ev.Type.String(), ev.Value, ev.Weight, nullable(ev.LoanID), ev.At,
	)
	if err != nil {
		return port.NewPersistenceError("credit.append_event", err)
	}
	return nil
}

// FindEvents returns the most recent entries for an entity, newest first.
func (r *CreditRepo) FindEvents(ctx context.Context, entityID string, limit int) ([]model.CreditEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, entity_id, event_type, value, weight, loan_id, occurred_at
		FROM credit_events
		WHERE entity_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, entityID, limit)
	if err != nil {
		return nil, port.NewPersistenceError("credit.query_events", err)
	}
	defer rows.Close()

	var events []model.CreditEvent
	for rows.Next() {
		var (
			ev      model.CreditEvent
			typeStr string
			loanID  *string
		)
		if err := rows.Scan(&ev.ID, &ev.EntityID, &typeStr, &ev.Value, &ev.Weight, &loanID, &ev.At); err != nil {
			return nil, port.NewPersistenceError("credit.scan_event", err)
		}
		eventType, err := valueobject.NewCreditEventType(typeStr)
		if err != nil {
			return nil, port.NewPersistenceError("credit.parse_type", err)
		}
		ev.Type = eventType
		if loanID != nil {
			ev.LoanID = *loanID
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// SaveScore upserts the entity's current score.
func (r *CreditRepo) SaveScore(ctx context.Context, score model.CreditScore) error {
	query := `
		INSERT INTO credit_scores (entity_id, value, range_min, range_max, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (entity_id) DO UPDATE SET
			value      = EXCLUDED.value,
			range_min  = EXCLUDED.range_min,
			range_max  = EXCLUDED.range_max,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		score.EntityID, score.Value, score.RangeMin, score.RangeMax, score.UpdatedAt,
	)
	if err != nil {
		return port.NewPersistenceError("credit.save_score", err)
	}
	return nil
}

// FindScore returns the entity's stored score.
func (r *CreditRepo) FindScore(ctx context.Context, entityID string) (model.CreditScore, error) {
	var score model.CreditScore
	err := r.pool.QueryRow(ctx, `
		SELECT entity_id, value, range_min, range_max, updated_at
		FROM credit_scores
		WHERE entity_id = $1
	`, entityID).Scan(&score.EntityID, &score.Value, &score.RangeMin, &score.RangeMax, &score.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CreditScore{}, port.ErrScoreNotFound
	}
	if err != nil {
		return model.CreditScore{}, port.NewPersistenceError("credit.find_score", err)
	}
	return score, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
