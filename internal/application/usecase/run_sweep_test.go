package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildbank/lending/internal/application/usecase"
	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/service"
)

func newTestLifecycleEngine() *service.LifecycleEngine {
	settings := staticSettings{testSnapshot()}
	logger := testLogger()
	scoring := service.NewCreditScoringEngine(newMockCreditHistory(), &mockPublisher{}, settings, logger)
	return service.NewLifecycleEngine(
		&mockLoanRepo{}, &mockEventRepo{}, &mockStatementRepo{},
		newMockEconomy(), &mockPublisher{}, scoring, settings, logger,
	)
}

func TestRunSweep_Execute(t *testing.T) {
	t.Run("expires stale offers", func(t *testing.T) {
		stale := staleOffer(t)
		offers := &mockOfferRepo{
			findExpiredFunc: func(_ context.Context, _ time.Time) ([]model.Offer, error) {
				return []model.Offer{stale}, nil
			},
		}
		publisher := &mockPublisher{}

		uc := usecase.NewRunSweepUseCase(offers, publisher, newTestLifecycleEngine(), testLogger())

		resp, err := uc.Execute(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 0, resp.LoansSwept)
		assert.Equal(t, 1, resp.OffersExpired)
		require.Len(t, offers.savedOffers, 1)
		assert.Equal(t, model.OfferStatusExpired, offers.savedOffers[0].Status())
		assert.Contains(t, publisher.eventTypes(), "lending.offer.expired")
	})

	t.Run("skips offers that cannot expire", func(t *testing.T) {
		accepted := staleOffer(t)
		accepted, _, err := accepted.Accept("borrower-1", accepted.ExpiresAt().Add(-time.Minute))
		require.NoError(t, err)

		offers := &mockOfferRepo{
			findExpiredFunc: func(_ context.Context, _ time.Time) ([]model.Offer, error) {
				return []model.Offer{accepted}, nil
			},
		}

		uc := usecase.NewRunSweepUseCase(offers, &mockPublisher{}, newTestLifecycleEngine(), testLogger())

		resp, err := uc.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, resp.OffersExpired)
		assert.Empty(t, offers.savedOffers)
	})

	t.Run("sweeps with nothing to do", func(t *testing.T) {
		uc := usecase.NewRunSweepUseCase(&mockOfferRepo{}, &mockPublisher{}, newTestLifecycleEngine(), testLogger())

		resp, err := uc.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, resp.LoansSwept)
		assert.Equal(t, 0, resp.OffersExpired)
	})
}

func staleOffer(t *testing.T) model.Offer {
	t.Helper()
	offer := openTestOffer(t)
	return model.ReconstructOffer(
		offer.ID(), offer.Lender(), offer.Borrower(), offer.Terms(), offer.AutoPay(),
		model.OfferStatusOpen, time.Now().UTC().Add(-48*time.Hour), time.Now().UTC().Add(-24*time.Hour), 1,
	)
}
