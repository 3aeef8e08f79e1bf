package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
)

// ExtendOfferUseCase records a lender's proposal of loan terms to a borrower.
type ExtendOfferUseCase struct {
	offers    port.OfferRepository
	entities  port.EntityStore
	publisher port.EventPublisher
	settings  port.Settings
}

// NewExtendOfferUseCase wires dependencies.
func NewExtendOfferUseCase(
	offers port.OfferRepository,
	entities port.EntityStore,
	publisher port.EventPublisher,
	settings port.Settings,
) *ExtendOfferUseCase {
	return &ExtendOfferUseCase{
		offers:    offers,
		entities:  entities,
		publisher: publisher,
		settings:  settings,
	}
}

// Execute validates the terms and opens the offer.
func (uc *ExtendOfferUseCase) Execute(
	ctx context.Context,
	req dto.ExtendOfferRequest,
) (dto.OfferResponse, error) {
	now := time.Now().UTC()

	if _, err := uc.entities.FindByID(ctx, req.Lender); err != nil {
		return dto.OfferResponse{}, fmt.Errorf("resolve lender: %w", err)
	}
	if _, err := uc.entities.FindByID(ctx, req.Borrower); err != nil {
		return dto.OfferResponse{}, fmt.Errorf("resolve borrower: %w", err)
	}

	terms, err := termsFromRequest(req.Terms)
	if err != nil {
		return dto.OfferResponse{}, fmt.Errorf("validate terms: %w", err)
	}

	ttl := uc.settings.Snapshot().OfferTTL
	if req.TTLSeconds > 0 {
		ttl = time.Duration(req.TTLSeconds) * time.Second
	}

	offer, err := model.NewOffer(req.Lender, req.Borrower, terms, req.AutoPay, ttl, now)
	if err != nil {
		return dto.OfferResponse{}, fmt.Errorf("create offer: %w", err)
	}

	if err := uc.offers.Save(ctx, offer); err != nil {
		return dto.OfferResponse{}, fmt.Errorf("save offer: %w", err)
	}
	if err := uc.publisher.Publish(ctx, offer.DomainEvents()...); err != nil {
		return dto.OfferResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return offerToResponse(offer), nil
}
