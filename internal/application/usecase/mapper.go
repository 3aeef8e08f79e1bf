package usecase

import (
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/valueobject"
)

func termsFromRequest(req dto.TermsRequest) (model.Terms, error) {
	loanType, err := valueobject.NewLoanType(req.LoanType)
	if err != nil {
		return model.Terms{}, err
	}
	minPayment, err := valueobject.NewMinPayment(req.MinPaymentValue, req.MinPaymentPercentage)
	if err != nil {
		return model.Terms{}, err
	}
	return model.NewTerms(model.TermsParams{
		Principal:           req.Principal,
		InterestRate:        req.InterestRate,
		Term:                time.Duration(req.TermSeconds) * time.Second,
		CompoundingPeriod:   time.Duration(req.CompoundingSeconds) * time.Second,
		GracePeriod:         time.Duration(req.GraceSeconds) * time.Second,
		PaymentTime:         time.Duration(req.PaymentTimeSeconds) * time.Second,
		PaymentFrequency:    time.Duration(req.PaymentFreqSeconds) * time.Second,
		LateFee:             req.LateFee,
		MinPayment:          minPayment,
		ServiceFee:          req.ServiceFee,
		ServiceFeeFrequency: time.Duration(req.ServiceFeeSeconds) * time.Second,
		LoanType:            loanType,
	})
}

func termsToRequest(t model.Terms) dto.TermsRequest {
	return dto.TermsRequest{
		Principal:            t.Principal(),
		InterestRate:         t.InterestRate(),
		TermSeconds:          int64(t.Term() / time.Second),
		CompoundingSeconds:   int64(t.CompoundingPeriod() / time.Second),
		GraceSeconds:         int64(t.GracePeriod() / time.Second),
		PaymentTimeSeconds:   int64(t.PaymentTime() / time.Second),
		PaymentFreqSeconds:   int64(t.PaymentFrequency() / time.Second),
		LateFee:              t.LateFee(),
		MinPaymentValue:      t.MinPayment().Value(),
		MinPaymentPercentage: t.MinPayment().Percentage(),
		ServiceFee:           t.ServiceFee(),
		ServiceFeeSeconds:    int64(t.ServiceFeeFrequency() / time.Second),
		LoanType:             t.LoanType().String(),
	}
}

func offerToResponse(o model.Offer) dto.OfferResponse {
	return dto.OfferResponse{
		ID:        o.ID(),
		Lender:    o.Lender(),
		Borrower:  o.Borrower(),
		Terms:     termsToRequest(o.Terms()),
		AutoPay:   o.AutoPay(),
		Status:    string(o.Status()),
		CreatedAt: o.CreatedAt(),
		ExpiresAt: o.ExpiresAt(),
	}
}

func loanToResponse(l model.Loan) dto.LoanResponse {
	resp := dto.LoanResponse{
		ID:              l.ID(),
		Lender:          l.Lender(),
		Borrower:        l.Borrower(),
		LoanType:        l.Terms().LoanType().String(),
		Balance:         l.Balance(),
		InterestBalance: l.InterestBalance(),
		FeeBalance:      l.FeeBalance(),
		CloseValue:      l.CloseValue(),
		Open:            l.Open(),
		AutoPay:         l.AutoPay(),
		StartTime:       l.StartTime(),
		LastUpdate:      l.LastUpdate(),
	}
	if !l.Terms().OpenEnded() {
		resp.Maturity = l.StartTime().Add(l.Terms().Term())
	}
	return resp
}

func statementToResponse(st model.Statement) dto.StatementResponse {
	return dto.StatementResponse{
		ID:         st.ID(),
		LoanID:     st.LoanID(),
		Bill:       st.Bill(),
		Minimum:    st.Minimum(),
		AmountPaid: st.AmountPaid(),
		IssuedAt:   st.IssuedAt(),
		DueAt:      st.DueAt(),
		Settled:    st.Settled(),
	}
}
