package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/service"
)

// GetStatementUseCase returns the latest billing statement for a loan.
type GetStatementUseCase struct {
	statements port.StatementRepository
	engine     *service.LifecycleEngine
}

// NewGetStatementUseCase wires dependencies.
func NewGetStatementUseCase(statements port.StatementRepository, engine *service.LifecycleEngine) *GetStatementUseCase {
	return &GetStatementUseCase{statements: statements, engine: engine}
}

// Execute brings the loan current and retrieves its latest statement.
func (uc *GetStatementUseCase) Execute(
	ctx context.Context,
	req dto.GetStatementRequest,
) (dto.StatementResponse, error) {
	now := time.Now().UTC()

	if err := uc.engine.Update(ctx, req.LoanID, now); err != nil {
		return dto.StatementResponse{}, fmt.Errorf("update loan: %w", err)
	}
	st, err := uc.statements.FindLatest(ctx, req.LoanID)
	if err != nil {
		return dto.StatementResponse{}, fmt.Errorf("find statement: %w", err)
	}
	return statementToResponse(st), nil
}
