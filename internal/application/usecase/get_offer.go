package usecase

import (
	"context"
	"fmt"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/port"
)

// GetOfferUseCase returns an offer's current state.
type GetOfferUseCase struct {
	offers port.OfferRepository
}

// NewGetOfferUseCase wires dependencies.
func NewGetOfferUseCase(offers port.OfferRepository) *GetOfferUseCase {
	return &GetOfferUseCase{offers: offers}
}

// Execute retrieves the offer.
func (uc *GetOfferUseCase) Execute(
	ctx context.Context,
	req dto.GetOfferRequest,
) (dto.OfferResponse, error) {
	offer, err := uc.offers.FindByID(ctx, req.OfferID)
	if err != nil {
		return dto.OfferResponse{}, fmt.Errorf("find offer: %w", err)
	}
	return offerToResponse(offer), nil
}
