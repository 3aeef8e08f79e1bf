package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/guildbank/lending/internal/application/usecase"
	"github.com/guildbank/lending/internal/domain/port"
)

// LoanHandler implements LoanServiceServer over the application use cases.
type LoanHandler struct {
	UnimplementedLoanServiceServer

	extendOffer  *usecase.ExtendOfferUseCase
	revokeOffer  *usecase.RevokeOfferUseCase
	getOffer     *usecase.GetOfferUseCase
	acceptOffer  *usecase.AcceptOfferUseCase
	makePayment  *usecase.MakePaymentUseCase
	updateLoan   *usecase.UpdateLoanUseCase
	autoPay      *usecase.ConfigureAutoPayUseCase
	getLoan      *usecase.GetLoanUseCase
	getStatement *usecase.GetStatementUseCase
	getScore     *usecase.GetCreditScoreUseCase
	bankruptcy   *usecase.RecordBankruptcyUseCase
	sellLoan     *usecase.SellLoanUseCase
}

// NewLoanHandler creates a new handler with all use-case dependencies.
func NewLoanHandler(
	extendOffer *usecase.ExtendOfferUseCase,
	revokeOffer *usecase.RevokeOfferUseCase,
	getOffer *usecase.GetOfferUseCase,
	acceptOffer *usecase.AcceptOfferUseCase,
	makePayment *usecase.MakePaymentUseCase,
	updateLoan *usecase.UpdateLoanUseCase,
	autoPay *usecase.ConfigureAutoPayUseCase,
	getLoan *usecase.GetLoanUseCase,
	getStatement *usecase.GetStatementUseCase,
	getScore *usecase.GetCreditScoreUseCase,
	bankruptcy *usecase.RecordBankruptcyUseCase,
	sellLoan *usecase.SellLoanUseCase,
) *LoanHandler {
	return &LoanHandler{
		extendOffer:  extendOffer,
		revokeOffer:  revokeOffer,
		getOffer:     getOffer,
		acceptOffer:  acceptOffer,
		makePayment:  makePayment,
		updateLoan:   updateLoan,
		autoPay:      autoPay,
		getLoan:      getLoan,
		getStatement: getStatement,
		getScore:     getScore,
		bankruptcy:   bankruptcy,
		sellLoan:     sellLoan,
	}
}

func (h *LoanHandler) ExtendOffer(ctx context.Context, req *ExtendOfferRequest) (*OfferResponse, error) {
	resp, err := h.extendOffer.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *LoanHandler) RevokeOffer(ctx context.Context, req *RevokeOfferRequest) (*OfferResponse, error) {
	resp, err := h.revokeOffer.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *LoanHandler) GetOffer(ctx context.Context, req *GetOfferRequest) (*OfferResponse, error) {
	resp, err := h.getOffer.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *LoanHandler) AcceptOffer(ctx context.Context, req *AcceptOfferRequest) (*LoanResponse, error) {
	resp, err := h.acceptOffer.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *LoanHandler) MakePayment(ctx context.Context, req *MakePaymentRequest) (*PaymentResponse, error) {
	resp, err := h.makePayment.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *LoanHandler) UpdateLoan(ctx context.Context, req *UpdateLoanRequest) (*LoanResponse, error) {
	resp, err := h.updateLoan.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *LoanHandler) ConfigureAutoPay(ctx context.Context, req *ConfigureAutoPayRequest) (*LoanResponse, error) {
	resp, err := h.autoPay.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *LoanHandler) GetLoan(ctx context.Context, req *GetLoanRequest) (*LoanResponse, error) {
	resp, err := h.getLoan.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *LoanHandler) GetStatement(ctx context.Context, req *GetStatementRequest) (*StatementResponse, error) {
	resp, err := h.getStatement.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *LoanHandler) GetCreditScore(ctx context.Context, req *GetCreditScoreRequest) (*CreditScoreResponse, error) {
	resp, err := h.getScore.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *LoanHandler) RecordBankruptcy(ctx context.Context, req *RecordBankruptcyRequest) (*CreditScoreResponse, error) {
	resp, err := h.bankruptcy.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *LoanHandler) SellLoan(ctx context.Context, req *SellLoanRequest) (*LoanResponse, error) {
	resp, err := h.sellLoan.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// toStatus maps domain errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, port.ErrLoanNotFound),
		errors.Is(err, port.ErrOfferNotFound),
		errors.Is(err, port.ErrEntityNotFound),
		errors.Is(err, port.ErrScoreNotFound),
		errors.Is(err, port.ErrStatementNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, port.ErrInsufficientFunds),
		errors.Is(err, port.ErrLoanClosed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, port.ErrVersionConflict):
		return status.Error(codes.Aborted, err.Error())
	default:
		var pe *port.PersistenceError
		if errors.As(err, &pe) {
			return status.Error(codes.Unavailable, err.Error())
		}
		return status.Error(codes.InvalidArgument, err.Error())
	}
}
