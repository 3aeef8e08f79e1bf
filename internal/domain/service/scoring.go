package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guildbank/lending/internal/domain/event"
	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/valueobject"
	"github.com/guildbank/lending/pkg/keymutex"
)

var one = decimal.NewFromInt(1)

// CreditScoringEngine maintains per-entity credit scores as an exponentially
// weighted moving average of recorded outcomes. Each outcome is a value in
// [0,1]; the running score moves toward it by the configured smoothing
// factor. Scores are stored scaled into the configured output range and
// normalized back for arithmetic.
type CreditScoringEngine struct {
	history   port.CreditHistoryRepository
	publisher port.EventPublisher
	settings  port.Settings
	locks     *keymutex.KeyMutex
	logger    *slog.Logger
}

func NewCreditScoringEngine(
	history port.CreditHistoryRepository,
	publisher port.EventPublisher,
	settings port.Settings,
	logger *slog.Logger,
) *CreditScoringEngine {
	return &CreditScoringEngine{
		history:   history,
		publisher: publisher,
		settings:  settings,
		locks:     keymutex.New(),
		logger:    logger,
	}
}

// ---------------------------------------------------------------------------
// Outcome recording
// ---------------------------------------------------------------------------

// RecordFullPayment records a statement settled in full.
func (e *CreditScoringEngine) RecordFullPayment(ctx context.Context, entityID, loanID string, at time.Time) error {
	return e.apply(ctx, model.NewCreditEvent(entityID, valueobject.CreditEventFullPayment, one, loanID, at))
}

// RecordMinimumPayment records a cycle where only the minimum arrived.
func (e *CreditScoringEngine) RecordMinimumPayment(ctx context.Context, entityID, loanID string, at time.Time) error {
	cfg := e.settings.Snapshot()
	return e.apply(ctx, model.NewCreditEvent(entityID, valueobject.CreditEventMinimumPayment, cfg.SubprimeScore, loanID, at))
}

// RecordMissedPayment records a grace period lapsing with the minimum unmet.
func (e *CreditScoringEngine) RecordMissedPayment(ctx context.Context, entityID, loanID string, at time.Time) error {
	return e.apply(ctx, model.NewCreditEvent(entityID, valueobject.CreditEventMissedPayment, decimal.Zero, loanID, at))
}

// RecordPayoff records a loan retired in full. The outcome lifts the score
// toward 1 in proportion to how much of the loan's life was carried.
func (e *CreditScoringEngine) RecordPayoff(ctx context.Context, entityID, loanID string, elapsed, term time.Duration, at time.Time) error {
	y := one
	if term > 0 && elapsed < term {
		score, err := e.currentNormalized(ctx, entityID)
		if err != nil {
			return err
		}
		carried := decimal.NewFromFloat(float64(elapsed) / float64(term))
		y = score.Add(one.Sub(score).Mul(carried))
	}
	return e.apply(ctx, model.NewCreditEvent(entityID, valueobject.CreditEventPayoff, y, loanID, at))
}

// RecordOverpayment records payment beyond the billed amount, weighted by how
// large the excess is relative to the loan.
func (e *CreditScoringEngine) RecordOverpayment(ctx context.Context, entityID, loanID string, paid, billed, loanValue decimal.Decimal, at time.Time) error {
	if loanValue.IsZero() || paid.LessThanOrEqual(billed) {
		return nil
	}
	score, err := e.currentNormalized(ctx, entityID)
	if err != nil {
		return err
	}
	cfg := e.settings.Snapshot()
	y := decimal.Min(one, score.Mul(cfg.OverpaymentPenalty).Mul(paid.Sub(billed).Div(loanValue)))
	return e.apply(ctx, model.NewCreditEvent(entityID, valueobject.CreditEventOverpayment, y, loanID, at))
}

// RecordUtilization records how far a revolving borrower's billed balance sits
// from the target utilization of their limit.
func (e *CreditScoringEngine) RecordUtilization(ctx context.Context, entityID, loanID string, billed, limit decimal.Decimal, at time.Time) error {
	if limit.IsZero() {
		return nil
	}
	score, err := e.currentNormalized(ctx, entityID)
	if err != nil {
		return err
	}
	cfg := e.settings.Snapshot()
	drift := billed.Div(limit).Sub(cfg.UtilizationGoal).Abs()
	y := score.Mul(one.Sub(cfg.UtilizationFactor.Mul(drift)))
	return e.apply(ctx, model.NewCreditEvent(entityID, valueobject.CreditEventUtilization, y, loanID, at))
}

// RecordCreditLimitReached records a revolving balance that has grown to its
// limit. The outcome sits just below the current score, so repeated maxed-out
// cycles grind it down.
func (e *CreditScoringEngine) RecordCreditLimitReached(ctx context.Context, entityID, loanID string, at time.Time) error {
	score, err := e.currentNormalized(ctx, entityID)
	if err != nil {
		return err
	}
	cfg := e.settings.Snapshot()
	return e.apply(ctx, model.NewCreditEvent(entityID, valueobject.CreditEventCreditLimit, score.Mul(cfg.CreditLimitFactor), loanID, at))
}

// RecordBankruptcy collapses an entity's score to the configured bankruptcy
// outcome in one step: the event carries its own smoothing weight of 1,
// overriding the configured factor so no history survives it.
func (e *CreditScoringEngine) RecordBankruptcy(ctx context.Context, entityID string, at time.Time) error {
	cfg := e.settings.Snapshot()
	return e.apply(ctx, model.NewWeightedCreditEvent(entityID, valueobject.CreditEventBankrupt, cfg.BankruptcyScore, one, "", at))
}

// RecordLoanActivity records open/close/modify markers. They carry no score
// movement of their own but reset the inactivity clock.
func (e *CreditScoringEngine) RecordLoanActivity(ctx context.Context, entityID, loanID string, typ valueobject.CreditEventType, at time.Time) error {
	score, err := e.currentNormalized(ctx, entityID)
	if err != nil {
		return err
	}
	return e.apply(ctx, model.NewCreditEvent(entityID, typ, score, loanID, at))
}

// ---------------------------------------------------------------------------
// Score reads
// ---------------------------------------------------------------------------

// Score returns the entity's current published score, with inactivity decay
// brought current and the stored range migrated to the configured one.
func (e *CreditScoringEngine) Score(ctx context.Context, entityID string, now time.Time) (model.CreditScore, error) {
	e.locks.Lock(entityID)
	defer e.locks.Unlock(entityID)

	cfg := e.settings.Snapshot()
	score, s, err := e.loadNormalized(ctx, entityID, cfg)
	if err != nil {
		return model.CreditScore{}, err
	}

	s, ticked, err := e.backfillInactivity(ctx, entityID, s, score.UpdatedAt, now, cfg)
	if err != nil {
		return model.CreditScore{}, err
	}

	migrated := !score.RangeMin.Equal(cfg.ScoreRangeMin) || !score.RangeMax.Equal(cfg.ScoreRangeMax)
	score = scaled(entityID, s, cfg, score.UpdatedAt)
	if ticked > 0 {
		score.UpdatedAt = score.UpdatedAt.Add(time.Duration(ticked) * cfg.InactivityPeriod)
	}
	if ticked > 0 || migrated {
		if err := e.history.SaveScore(ctx, score); err != nil {
			return model.CreditScore{}, err
		}
	}

	score.Value = roundSignificant(score.Value, cfg.SigFigs)
	return score, nil
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// apply runs one outcome through the moving average under the entity's lock.
// Outcomes outside [0,1] are recorded for audit but never move the score.
func (e *CreditScoringEngine) apply(ctx context.Context, ev model.CreditEvent) error {
	e.locks.Lock(ev.EntityID)
	defer e.locks.Unlock(ev.EntityID)

	cfg := e.settings.Snapshot()
	score, s, err := e.loadNormalized(ctx, ev.EntityID, cfg)
	if err != nil {
		return err
	}

	s, _, err = e.backfillInactivity(ctx, ev.EntityID, s, score.UpdatedAt, ev.At, cfg)
	if err != nil {
		return err
	}

	if ev.Value.IsNegative() || ev.Value.GreaterThan(one) {
		e.logger.Warn("rejecting out-of-range credit outcome",
			slog.String("entity_id", ev.EntityID),
			slog.String("event_type", ev.Type.String()),
			slog.String("value", ev.Value.String()))
		scoringOutcomesRejected.Inc()
		return e.history.AppendEvent(ctx, ev)
	}

	alpha := cfg.Alpha
	if ev.HasWeight() {
		alpha = ev.Weight
	}
	s = smooth(s, ev.Value, alpha)

	next := scaled(ev.EntityID, s, cfg, ev.At)
	if err := e.history.SaveScore(ctx, next); err != nil {
		return err
	}
	if err := e.history.AppendEvent(ctx, ev); err != nil {
		return err
	}
	scoringOutcomesApplied.WithLabelValues(ev.Type.String()).Inc()

	published := event.NewCreditScoreUpdated(ev.EntityID, ev.Type.String(), roundSignificant(next.Value, cfg.SigFigs))
	if err := e.publisher.Publish(ctx, published); err != nil {
		e.logger.Warn("publish credit score update", slog.String("entity_id", ev.EntityID), slog.Any("error", err))
	}
	return nil
}

// backfillInactivity applies one decay outcome per full inactivity period
// elapsed since the last update, in order, and records each as history.
func (e *CreditScoringEngine) backfillInactivity(
	ctx context.Context,
	entityID string,
	s decimal.Decimal,
	since, until time.Time,
	cfg port.SettingsSnapshot,
) (decimal.Decimal, int, error) {
	if since.IsZero() || !until.After(since) {
		return s, 0, nil
	}
	ticks := int(until.Sub(since) / cfg.InactivityPeriod)
	for i := 1; i <= ticks; i++ {
		y := decimal.Max(cfg.NoHistoryScore, s.Mul(cfg.InactivityFactor))
		s = smooth(s, y, cfg.Alpha)
		at := since.Add(time.Duration(i) * cfg.InactivityPeriod)
		ev := model.NewCreditEvent(entityID, valueobject.CreditEventInactivity, y, "", at)
		if err := e.history.AppendEvent(ctx, ev); err != nil {
			return s, 0, err
		}
	}
	return s, ticks, nil
}

// loadNormalized fetches the stored score and maps it into [0,1], seeding a
// no-history entity with the configured starting score.
func (e *CreditScoringEngine) loadNormalized(ctx context.Context, entityID string, cfg port.SettingsSnapshot) (model.CreditScore, decimal.Decimal, error) {
	score, err := e.history.FindScore(ctx, entityID)
	if errors.Is(err, port.ErrScoreNotFound) {
		seed := scaled(entityID, cfg.NoHistoryScore, cfg, time.Time{})
		return seed, cfg.NoHistoryScore, nil
	}
	if err != nil {
		return model.CreditScore{}, decimal.Decimal{}, err
	}
	return score, score.Normalized(), nil
}

func (e *CreditScoringEngine) currentNormalized(ctx context.Context, entityID string) (decimal.Decimal, error) {
	_, s, err := e.loadNormalized(ctx, entityID, e.settings.Snapshot())
	if err != nil {
		return decimal.Decimal{}, err
	}
	return s, nil
}

// smooth is the moving-average step: s' = a*y + (1-a)*s, clamped to [0,1].
func smooth(s, y, alpha decimal.Decimal) decimal.Decimal {
	next := alpha.Mul(y).Add(one.Sub(alpha).Mul(s))
	if next.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(next, one)
}

func scaled(entityID string, s decimal.Decimal, cfg port.SettingsSnapshot, at time.Time) model.CreditScore {
	return model.CreditScore{
		EntityID:  entityID,
		Value:     cfg.ScoreRangeMin.Add(s.Mul(cfg.ScoreRangeMax.Sub(cfg.ScoreRangeMin))),
		RangeMin:  cfg.ScoreRangeMin,
		RangeMax:  cfg.ScoreRangeMax,
		UpdatedAt: at,
	}
}

// roundSignificant rounds to a number of significant figures rather than
// decimal places.
func roundSignificant(d decimal.Decimal, figs int32) decimal.Decimal {
	if d.IsZero() || figs <= 0 {
		return d
	}
	exp := int32(math.Floor(math.Log10(math.Abs(d.InexactFloat64()))))
	return d.Round(figs - 1 - exp)
}
