package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/guildbank/lending/internal/application/dto"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/service"
)

// RunSweepUseCase is the periodic maintenance pass: every open loan is
// brought current and every open offer past its deadline is expired.
type RunSweepUseCase struct {
	offers    port.OfferRepository
	publisher port.EventPublisher
	engine    *service.LifecycleEngine
	logger    *slog.Logger
}

// NewRunSweepUseCase wires dependencies.
func NewRunSweepUseCase(
	offers port.OfferRepository,
	publisher port.EventPublisher,
	engine *service.LifecycleEngine,
	logger *slog.Logger,
) *RunSweepUseCase {
	return &RunSweepUseCase{
		offers:    offers,
		publisher: publisher,
		engine:    engine,
		logger:    logger,
	}
}

// Execute runs one full sweep. A single offer or loan failing is logged and
// skipped; the sweep finishes regardless.
func (uc *RunSweepUseCase) Execute(ctx context.Context) (dto.SweepResponse, error) {
	now := time.Now().UTC()

	swept, err := uc.engine.UpdateAll(ctx, now)
	if err != nil {
		return dto.SweepResponse{}, fmt.Errorf("sweep loans: %w", err)
	}

	expired, err := uc.expireOffers(ctx, now)
	if err != nil {
		return dto.SweepResponse{}, fmt.Errorf("expire offers: %w", err)
	}

	return dto.SweepResponse{LoansSwept: swept, OffersExpired: expired}, nil
}

func (uc *RunSweepUseCase) expireOffers(ctx context.Context, now time.Time) (int, error) {
	stale, err := uc.offers.FindExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, offer := range stale {
		next, err := offer.Expire(now)
		if err != nil {
			uc.logger.Warn("expire offer", slog.String("offer_id", offer.ID()), slog.Any("error", err))
			continue
		}
		if err := uc.offers.Save(ctx, next); err != nil {
			uc.logger.Error("save expired offer", slog.String("offer_id", offer.ID()), slog.Any("error", err))
			continue
		}
		if err := uc.publisher.Publish(ctx, next.DomainEvents()...); err != nil {
			uc.logger.Warn("publish offer expiry", slog.String("offer_id", offer.ID()), slog.Any("error", err))
		}
		expired++
	}
	return expired, nil
}
