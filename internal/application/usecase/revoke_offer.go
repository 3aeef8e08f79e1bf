package usecase

import (
	"context"
	"fmt"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/port"
)

// RevokeOfferUseCase withdraws an open offer before acceptance.
type RevokeOfferUseCase struct {
	offers    port.OfferRepository
	publisher port.EventPublisher
}

// NewRevokeOfferUseCase wires dependencies.
func NewRevokeOfferUseCase(offers port.OfferRepository, publisher port.EventPublisher) *RevokeOfferUseCase {
	return &RevokeOfferUseCase{offers: offers, publisher: publisher}
}

// Execute revokes the offer on behalf of its lender.
func (uc *RevokeOfferUseCase) Execute(
	ctx context.Context,
	req dto.RevokeOfferRequest,
) (dto.OfferResponse, error) {
	offer, err := uc.offers.FindByID(ctx, req.OfferID)
	if err != nil {
		return dto.OfferResponse{}, fmt.Errorf("find offer: %w", err)
	}

	offer, err = offer.Revoke(req.Lender)
	if err != nil {
		return dto.OfferResponse{}, fmt.Errorf("revoke offer: %w", err)
	}
	if err := uc.offers.Save(ctx, offer); err != nil {
		return dto.OfferResponse{}, fmt.Errorf("save offer: %w", err)
	}
	if err := uc.publisher.Publish(ctx, offer.DomainEvents()...); err != nil {
		return dto.OfferResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return offerToResponse(offer), nil
}
