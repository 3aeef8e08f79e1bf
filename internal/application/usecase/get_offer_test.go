package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/application/usecase"
	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
)

func TestGetOffer_Execute(t *testing.T) {
	t.Run("returns the offer", func(t *testing.T) {
		offer := openTestOffer(t)
		offers := &mockOfferRepo{
			findByIDFunc: func(_ context.Context, id string) (model.Offer, error) {
				assert.Equal(t, "offer-1", id)
				return offer, nil
			},
		}

		uc := usecase.NewGetOfferUseCase(offers)

		resp, err := uc.Execute(context.Background(), dto.GetOfferRequest{OfferID: "offer-1"})
		require.NoError(t, err)
		assert.Equal(t, "offer-1", resp.ID)
		assert.Equal(t, "lender-1", resp.Lender)
		assert.Equal(t, "borrower-1", resp.Borrower)
	})

	t.Run("fails for an unknown offer", func(t *testing.T) {
		uc := usecase.NewGetOfferUseCase(&mockOfferRepo{})

		_, err := uc.Execute(context.Background(), dto.GetOfferRequest{OfferID: "missing"})
		require.ErrorIs(t, err, port.ErrOfferNotFound)
	})
}
