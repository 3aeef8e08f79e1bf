package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/application/usecase"
	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/service"
	"github.com/guildbank/lending/internal/domain/valueobject"
)

func autopayTestLoan(t *testing.T, open bool) model.Loan {
	t.Helper()
	minPayment, err := valueobject.NewMinPayment(decimal.NewFromFloat(0.1), true)
	require.NoError(t, err)
	terms, err := model.NewTerms(model.TermsParams{
		Principal:        decimal.NewFromInt(1000),
		InterestRate:     decimal.Zero,
		Term:             360 * 24 * time.Hour,
		PaymentFrequency: 30 * 24 * time.Hour,
		GracePeriod:      3 * 24 * time.Hour,
		PaymentTime:      7 * 24 * time.Hour,
		LateFee:          decimal.NewFromInt(25),
		MinPayment:       minPayment,
		LoanType:         valueobject.LoanTypeAmortizing,
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	return model.ReconstructLoan(
		"loan-1", "lender-1", "borrower-1", terms,
		terms.Principal(), decimal.Zero, decimal.Zero,
		now.Add(-10*24*time.Hour), now, open, false, 1,
	)
}

func newTestLifecycle(loans *mockLoanRepo, scoring *service.CreditScoringEngine) *service.LifecycleEngine {
	return service.NewLifecycleEngine(
		loans, &mockEventRepo{}, &mockStatementRepo{}, newMockEconomy(),
		&mockPublisher{}, scoring, staticSettings{testSnapshot()}, testLogger(),
	)
}

func TestConfigureAutoPay_Execute(t *testing.T) {
	t.Run("flips autopay on for the borrower", func(t *testing.T) {
		loan := autopayTestLoan(t, true)
		loans := &mockLoanRepo{
			findByIDFunc: func(_ context.Context, id string) (model.Loan, error) {
				assert.Equal(t, "loan-1", id)
				return loan, nil
			},
		}
		history := newMockCreditHistory()
		scoring := newTestScoring(history)
		publisher := &mockPublisher{}

		uc := usecase.NewConfigureAutoPayUseCase(loans, scoring, publisher, newTestLifecycle(loans, scoring))

		resp, err := uc.Execute(context.Background(), dto.ConfigureAutoPayRequest{
			LoanID:   "loan-1",
			Borrower: "borrower-1",
			AutoPay:  true,
		})
		require.NoError(t, err)

		assert.True(t, resp.AutoPay)
		require.NotEmpty(t, loans.savedLoans)
		assert.True(t, loans.savedLoans[len(loans.savedLoans)-1].AutoPay())

		// The change lands in the credit history as a modification marker.
		var types []string
		for _, ev := range history.events {
			types = append(types, ev.Type.String())
		}
		assert.Contains(t, types, "LOAN_MODIFY")
		assert.Contains(t, publisher.eventTypes(), "lending.loan.modified")
	})

	t.Run("rejects anyone but the borrower", func(t *testing.T) {
		loan := autopayTestLoan(t, true)
		loans := &mockLoanRepo{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) {
				return loan, nil
			},
		}
		scoring := newTestScoring(newMockCreditHistory())

		uc := usecase.NewConfigureAutoPayUseCase(loans, scoring, &mockPublisher{}, newTestLifecycle(loans, scoring))

		_, err := uc.Execute(context.Background(), dto.ConfigureAutoPayRequest{
			LoanID:   "loan-1",
			Borrower: "lender-1",
			AutoPay:  true,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only the borrower")
	})

	t.Run("rejects a closed loan", func(t *testing.T) {
		loan := autopayTestLoan(t, false)
		loans := &mockLoanRepo{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) {
				return loan, nil
			},
		}
		scoring := newTestScoring(newMockCreditHistory())

		uc := usecase.NewConfigureAutoPayUseCase(loans, scoring, &mockPublisher{}, newTestLifecycle(loans, scoring))

		_, err := uc.Execute(context.Background(), dto.ConfigureAutoPayRequest{
			LoanID:   "loan-1",
			Borrower: "borrower-1",
			AutoPay:  true,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "closed")
	})

	t.Run("fails for an unknown loan", func(t *testing.T) {
		loans := &mockLoanRepo{}
		scoring := newTestScoring(newMockCreditHistory())

		uc := usecase.NewConfigureAutoPayUseCase(loans, scoring, &mockPublisher{}, newTestLifecycle(loans, scoring))

		_, err := uc.Execute(context.Background(), dto.ConfigureAutoPayRequest{
			LoanID:   "missing",
			Borrower: "borrower-1",
		})
		require.ErrorIs(t, err, port.ErrLoanNotFound)
	})
}
