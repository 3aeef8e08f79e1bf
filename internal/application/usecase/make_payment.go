package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/service"
)

// MakePaymentUseCase applies a voluntary payment to a loan. The engine brings
// the loan current first, so interest and due events land before allocation.
type MakePaymentUseCase struct {
	engine *service.LifecycleEngine
}

// NewMakePaymentUseCase wires dependencies.
func NewMakePaymentUseCase(engine *service.LifecycleEngine) *MakePaymentUseCase {
	return &MakePaymentUseCase{engine: engine}
}

// Execute runs the payment through the allocation waterfall. The excess, if
// any, never leaves the payer's wallet.
func (uc *MakePaymentUseCase) Execute(
	ctx context.Context,
	req dto.MakePaymentRequest,
) (dto.PaymentResponse, error) {
	now := time.Now().UTC()

	loan, alloc, err := uc.engine.ApplyPayment(ctx, req.LoanID, req.Payer, req.Amount, now)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("apply payment: %w", err)
	}

	return dto.PaymentResponse{
		LoanID:     loan.ID(),
		Fees:       alloc.Fees,
		Interest:   alloc.Interest,
		Principal:  alloc.Principal,
		Excess:     alloc.Excess,
		CloseValue: loan.CloseValue(),
		Open:       loan.Open(),
	}, nil
}
