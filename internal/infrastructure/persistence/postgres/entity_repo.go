package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
)

// EntityRepo implements port.EntityStore.
type EntityRepo struct {
	pool *pgxpool.Pool
}

// NewEntityRepo creates a new PostgreSQL-backed entity store.
func NewEntityRepo(pool *pgxpool.Pool) *EntityRepo {
	return &EntityRepo{pool: pool}
}

// Save upserts an entity.
func (r *EntityRepo) Save(ctx context.Context, e model.Entity) error {
	query := `
		INSERT INTO entities (id, name, kind, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			kind = EXCLUDED.kind
	`
	if _, err := r.pool.Exec(ctx, query, e.ID, e.Name, e.Kind, e.CreatedAt); err != nil {
		return port.NewPersistenceError("entity.save", err)
	}
	return nil
}

// FindByID retrieves one entity.
func (r *EntityRepo) FindByID(ctx context.Context, id string) (model.Entity, error) {
	var e model.Entity
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, kind, created_at FROM entities WHERE id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.Kind, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Entity{}, port.ErrEntityNotFound
	}
	if err != nil {
		return model.Entity{}, port.NewPersistenceError("entity.find", err)
	}
	return e, nil
}
