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

func openTestOffer(t *testing.T) model.Offer {
	t.Helper()
	minPayment, err := valueobject.NewMinPayment(decimal.NewFromFloat(0.1), true)
	require.NoError(t, err)
	terms, err := model.NewTerms(model.TermsParams{
		Principal:        decimal.NewFromInt(1000),
		InterestRate:     decimal.NewFromFloat(0.05),
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
	return model.ReconstructOffer(
		"offer-1", "lender-1", "borrower-1", terms, true,
		model.OfferStatusOpen, now.Add(-time.Hour), now.Add(23*time.Hour), 1,
	)
}

func newTestScoring(history *mockCreditHistory) *service.CreditScoringEngine {
	return service.NewCreditScoringEngine(history, &mockPublisher{}, staticSettings{testSnapshot()}, testLogger())
}

func TestAcceptOffer_Execute(t *testing.T) {
	t.Run("funds the loan and writes its schedule", func(t *testing.T) {
		offer := openTestOffer(t)

		var ops []string
		offers := &mockOfferRepo{
			findByIDFunc: func(_ context.Context, id string) (model.Offer, error) {
				assert.Equal(t, "offer-1", id)
				return offer, nil
			},
		}
		var savedOffer model.Offer
		offers.saveFunc = func(_ context.Context, o model.Offer) error {
			ops = append(ops, "offer.save")
			savedOffer = o
			return nil
		}

		loans := &mockLoanRepo{}
		loans.saveFunc = func(_ context.Context, loan model.Loan) error {
			ops = append(ops, "loan.save")
			loans.savedLoans = append(loans.savedLoans, loan)
			return nil
		}

		events := &mockEventRepo{}
		events.appendFunc = func(_ context.Context, evs ...model.ScheduledEvent) error {
			ops = append(ops, "events.append")
			events.appended = append(events.appended, evs...)
			return nil
		}

		economy := newMockEconomy()
		history := newMockCreditHistory()
		publisher := &mockPublisher{}

		uc := usecase.NewAcceptOfferUseCase(
			offers, loans, events, economy, newTestScoring(history), publisher, staticSettings{testSnapshot()},
		)

		resp, err := uc.Execute(context.Background(), dto.AcceptOfferRequest{
			OfferID:  "offer-1",
			Borrower: "borrower-1",
		})
		require.NoError(t, err)

		assert.True(t, resp.Open)
		assert.True(t, resp.Balance.Equal(decimal.NewFromInt(1000)))
		assert.True(t, resp.AutoPay)

		// Principal moves lender to borrower.
		assert.True(t, economy.withdrawals["lender-1"].Equal(decimal.NewFromInt(1000)))
		assert.True(t, economy.deposits["borrower-1"].Equal(decimal.NewFromInt(1000)))

		// The loan row must exist before its schedule references it.
		assert.Equal(t, []string{"loan.save", "events.append", "offer.save"}, ops)

		require.Len(t, loans.savedLoans, 1)
		assert.Equal(t, model.OfferStatusAccepted, savedOffer.Status())

		require.NotEmpty(t, events.appended)
		open := events.appended[0]
		assert.True(t, open.Type.Equal(valueobject.EventTypeOpen))
		assert.True(t, open.Executed)

		// The acceptance lands in the borrower's credit history.
		require.NotEmpty(t, history.events)
		assert.True(t, history.events[0].Type.Equal(valueobject.CreditEventLoanOpen))

		assert.Contains(t, publisher.eventTypes(), "lending.offer.accepted")
		assert.Contains(t, publisher.eventTypes(), "lending.loan.opened")
	})

	t.Run("rejects the wrong borrower", func(t *testing.T) {
		offer := openTestOffer(t)
		offers := &mockOfferRepo{
			findByIDFunc: func(_ context.Context, _ string) (model.Offer, error) {
				return offer, nil
			},
		}

		uc := usecase.NewAcceptOfferUseCase(
			offers, &mockLoanRepo{}, &mockEventRepo{}, newMockEconomy(),
			newTestScoring(newMockCreditHistory()), &mockPublisher{}, staticSettings{testSnapshot()},
		)

		_, err := uc.Execute(context.Background(), dto.AcceptOfferRequest{
			OfferID:  "offer-1",
			Borrower: "impostor",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "accept offer")
	})

	t.Run("fails when the lender cannot fund the principal", func(t *testing.T) {
		offer := openTestOffer(t)
		offers := &mockOfferRepo{
			findByIDFunc: func(_ context.Context, _ string) (model.Offer, error) {
				return offer, nil
			},
		}
		economy := newMockEconomy()
		economy.withdrawFunc = func(_ context.Context, _ string, _ decimal.Decimal) error {
			return port.ErrInsufficientFunds
		}
		loans := &mockLoanRepo{}

		uc := usecase.NewAcceptOfferUseCase(
			offers, loans, &mockEventRepo{}, economy,
			newTestScoring(newMockCreditHistory()), &mockPublisher{}, staticSettings{testSnapshot()},
		)

		_, err := uc.Execute(context.Background(), dto.AcceptOfferRequest{
			OfferID:  "offer-1",
			Borrower: "borrower-1",
		})
		require.ErrorIs(t, err, port.ErrInsufficientFunds)
		assert.Empty(t, loans.savedLoans)
		assert.Empty(t, offers.savedOffers)
	})

	t.Run("fails for an unknown offer", func(t *testing.T) {
		uc := usecase.NewAcceptOfferUseCase(
			&mockOfferRepo{}, &mockLoanRepo{}, &mockEventRepo{}, newMockEconomy(),
			newTestScoring(newMockCreditHistory()), &mockPublisher{}, staticSettings{testSnapshot()},
		)

		_, err := uc.Execute(context.Background(), dto.AcceptOfferRequest{
			OfferID:  "missing",
			Borrower: "borrower-1",
		})
		require.ErrorIs(t, err, port.ErrOfferNotFound)
	})
}
