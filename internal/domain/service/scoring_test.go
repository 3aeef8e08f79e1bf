package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildbank/lending/internal/domain/event"
	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/service"
	"github.com/guildbank/lending/internal/domain/valueobject"
)

var scoringNow = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

// --- Fakes ---

type staticSettings struct {
	snap port.SettingsSnapshot
}

func (s staticSettings) Snapshot() port.SettingsSnapshot { return s.snap }

func testSnapshot() port.SettingsSnapshot {
	return port.SettingsSnapshot{
		InterestReportingPeriod: 24 * time.Hour,
		SweepInterval:           time.Minute,
		SweepJitter:             0,
		SweepWorkers:            2,
		OfferTTL:                24 * time.Hour,
		Alpha:                   decimal.NewFromFloat(0.5),
		NoHistoryScore:          decimal.NewFromFloat(0.5),
		SubprimeScore:           decimal.NewFromFloat(0.4),
		BankruptcyScore:         decimal.Zero,
		InactivityPeriod:        30 * 24 * time.Hour,
		InactivityFactor:        decimal.NewFromFloat(0.5),
		CreditLimitFactor:       decimal.NewFromFloat(0.98),
		UtilizationFactor:       decimal.NewFromFloat(0.5),
		UtilizationGoal:         decimal.NewFromFloat(0.3),
		OverpaymentPenalty:      decimal.NewFromInt(2),
		ScoreRangeMin:           decimal.Zero,
		ScoreRangeMax:           decimal.NewFromInt(1000),
		SigFigs:                 6,
	}
}

type fakeCreditHistory struct {
	events []model.CreditEvent
	scores map[string]model.CreditScore
}

func newFakeCreditHistory() *fakeCreditHistory {
	return &fakeCreditHistory{scores: make(map[string]model.CreditScore)}
}

func (f *fakeCreditHistory) AppendEvent(_ context.Context, ev model.CreditEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeCreditHistory) FindEvents(_ context.Context, entityID string, limit int) ([]model.CreditEvent, error) {
	var out []model.CreditEvent
	for i := len(f.events) - 1; i >= 0 && len(out) < limit; i-- {
		if f.events[i].EntityID == entityID {
			out = append(out, f.events[i])
		}
	}
	return out, nil
}

func (f *fakeCreditHistory) SaveScore(_ context.Context, score model.CreditScore) error {
	f.scores[score.EntityID] = score
	return nil
}

func (f *fakeCreditHistory) FindScore(_ context.Context, entityID string) (model.CreditScore, error) {
	score, ok := f.scores[entityID]
	if !ok {
		return model.CreditScore{}, port.ErrScoreNotFound
	}
	return score, nil
}

func (f *fakeCreditHistory) eventTypes(entityID string) []string {
	var types []string
	for _, ev := range f.events {
		if ev.EntityID == entityID {
			types = append(types, ev.Type.String())
		}
	}
	return types
}

type fakePublisher struct {
	published []event.DomainEvent
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, evs ...event.DomainEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, evs...)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newScoringEngine(history *fakeCreditHistory) *service.CreditScoringEngine {
	return service.NewCreditScoringEngine(history, &fakePublisher{}, staticSettings{testSnapshot()}, testLogger())
}

func storedScore(entityID string, normalized float64, at time.Time) model.CreditScore {
	return model.CreditScore{
		EntityID:  entityID,
		Value:     decimal.NewFromFloat(normalized * 1000),
		RangeMin:  decimal.Zero,
		RangeMax:  decimal.NewFromInt(1000),
		UpdatedAt: at,
	}
}

// --- Tests ---

func TestScoring_FullPaymentMovesTowardOne(t *testing.T) {
	history := newFakeCreditHistory()
	engine := newScoringEngine(history)

	// No history seeds at 0.5; one full payment with alpha 0.5 lands at 0.75.
	err := engine.RecordFullPayment(context.Background(), "entity-1", "loan-1", scoringNow)
	require.NoError(t, err)

	saved := history.scores["entity-1"]
	assert.True(t, saved.Value.Equal(decimal.NewFromInt(750)), "got %s", saved.Value)
	assert.Equal(t, []string{"FULL_PAYMENT"}, history.eventTypes("entity-1"))
}

func TestScoring_MissedPaymentMovesTowardZero(t *testing.T) {
	history := newFakeCreditHistory()
	engine := newScoringEngine(history)

	err := engine.RecordMissedPayment(context.Background(), "entity-1", "loan-1", scoringNow)
	require.NoError(t, err)

	saved := history.scores["entity-1"]
	assert.True(t, saved.Value.Equal(decimal.NewFromInt(250)), "got %s", saved.Value)
}

func TestScoring_MinimumPaymentUsesSubprimeOutcome(t *testing.T) {
	history := newFakeCreditHistory()
	engine := newScoringEngine(history)

	err := engine.RecordMinimumPayment(context.Background(), "entity-1", "loan-1", scoringNow)
	require.NoError(t, err)

	// 0.5*0.4 + 0.5*0.5 = 0.45.
	saved := history.scores["entity-1"]
	assert.True(t, saved.Value.Equal(decimal.NewFromInt(450)), "got %s", saved.Value)
}

func TestScoring_BankruptcyOverridesHistory(t *testing.T) {
	history := newFakeCreditHistory()
	history.scores["entity-1"] = storedScore("entity-1", 0.9, scoringNow)
	engine := newScoringEngine(history)

	err := engine.RecordBankruptcy(context.Background(), "entity-1", scoringNow)
	require.NoError(t, err)

	// The event carries weight 1, so the prior 0.9 is wiped in one step.
	saved := history.scores["entity-1"]
	assert.True(t, saved.Value.IsZero(), "got %s", saved.Value)
}

func TestScoring_BankruptcyUsesConfiguredOutcome(t *testing.T) {
	history := newFakeCreditHistory()
	history.scores["entity-1"] = storedScore("entity-1", 0.9, scoringNow)
	snap := testSnapshot()
	snap.BankruptcyScore = decimal.NewFromFloat(0.25)
	engine := service.NewCreditScoringEngine(history, &fakePublisher{}, staticSettings{snap}, testLogger())

	err := engine.RecordBankruptcy(context.Background(), "entity-1", scoringNow)
	require.NoError(t, err)

	// Weight 1 lands the score exactly on the configured outcome.
	saved := history.scores["entity-1"]
	assert.True(t, saved.Value.Equal(decimal.NewFromInt(250)), "got %s", saved.Value)
}

func TestScoring_CreditLimitReachedNudgesDown(t *testing.T) {
	history := newFakeCreditHistory()
	history.scores["entity-1"] = storedScore("entity-1", 0.8, scoringNow)
	engine := newScoringEngine(history)

	err := engine.RecordCreditLimitReached(context.Background(), "entity-1", "loan-1", scoringNow)
	require.NoError(t, err)

	// y = 0.8*0.98 = 0.784; s' = 0.5*0.784 + 0.5*0.8 = 0.792.
	saved := history.scores["entity-1"]
	assert.True(t, saved.Value.Equal(decimal.NewFromInt(792)), "got %s", saved.Value)
	assert.Equal(t, []string{"CREDIT_LIMIT"}, history.eventTypes("entity-1"))
}

func TestScoring_PayoffAtMaturityIsPerfect(t *testing.T) {
	history := newFakeCreditHistory()
	history.scores["entity-1"] = storedScore("entity-1", 0.5, scoringNow)
	engine := newScoringEngine(history)

	term := 360 * 24 * time.Hour
	err := engine.RecordPayoff(context.Background(), "entity-1", "loan-1", term, term, scoringNow)
	require.NoError(t, err)

	// y = 1: 0.5*1 + 0.5*0.5 = 0.75.
	saved := history.scores["entity-1"]
	assert.True(t, saved.Value.Equal(decimal.NewFromInt(750)), "got %s", saved.Value)
}

func TestScoring_EarlyPayoffScalesWithCarriedFraction(t *testing.T) {
	history := newFakeCreditHistory()
	history.scores["entity-1"] = storedScore("entity-1", 0.5, scoringNow)
	engine := newScoringEngine(history)

	term := 360 * 24 * time.Hour
	err := engine.RecordPayoff(context.Background(), "entity-1", "loan-1", term/2, term, scoringNow)
	require.NoError(t, err)

	// Carried half the term: y = 0.5 + 0.5*0.5 = 0.75, s' = 0.625.
	saved := history.scores["entity-1"]
	assert.True(t, saved.Value.Equal(decimal.NewFromInt(625)), "got %s", saved.Value)
}

func TestScoring_OverpaymentCappedAtOne(t *testing.T) {
	history := newFakeCreditHistory()
	history.scores["entity-1"] = storedScore("entity-1", 0.8, scoringNow)
	engine := newScoringEngine(history)

	// Excess equals the whole loan value: 0.8*2*1 = 1.6, capped at 1.
	err := engine.RecordOverpayment(context.Background(), "entity-1", "loan-1",
		decimal.NewFromInt(2000), decimal.NewFromInt(1000), decimal.NewFromInt(1000), scoringNow)
	require.NoError(t, err)

	// s' = 0.5*1 + 0.5*0.8 = 0.9.
	saved := history.scores["entity-1"]
	assert.True(t, saved.Value.Equal(decimal.NewFromInt(900)), "got %s", saved.Value)
}

func TestScoring_OverpaymentIgnoredWhenNotOver(t *testing.T) {
	history := newFakeCreditHistory()
	engine := newScoringEngine(history)

	err := engine.RecordOverpayment(context.Background(), "entity-1", "loan-1",
		decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(1000), scoringNow)
	require.NoError(t, err)

	assert.Empty(t, history.events)
}

func TestScoring_OutOfRangeOutcomeRecordedButNotApplied(t *testing.T) {
	history := newFakeCreditHistory()
	history.scores["entity-1"] = storedScore("entity-1", 0.8, scoringNow)
	engine := newScoringEngine(history)

	// Utilization ten times the limit drives the outcome negative.
	err := engine.RecordUtilization(context.Background(), "entity-1", "loan-1",
		decimal.NewFromInt(10000), decimal.NewFromInt(1000), scoringNow)
	require.NoError(t, err)

	saved := history.scores["entity-1"]
	assert.True(t, saved.Value.Equal(decimal.NewFromInt(800)), "score moved: %s", saved.Value)
	assert.Equal(t, []string{"CREDIT_UTILIZATION"}, history.eventTypes("entity-1"))
}

func TestScoring_ScoreSeedsNoHistoryEntity(t *testing.T) {
	history := newFakeCreditHistory()
	engine := newScoringEngine(history)

	score, err := engine.Score(context.Background(), "fresh-entity", scoringNow)
	require.NoError(t, err)

	assert.True(t, score.Value.Equal(decimal.NewFromInt(500)), "got %s", score.Value)
}

func TestScoring_InactivityBackfill(t *testing.T) {
	history := newFakeCreditHistory()
	// Last touched 3.5 inactivity periods ago: exactly 3 decay ticks are due.
	last := scoringNow.Add(-105 * 24 * time.Hour)
	history.scores["entity-1"] = storedScore("entity-1", 0.8, last)
	engine := newScoringEngine(history)

	score, err := engine.Score(context.Background(), "entity-1", scoringNow)
	require.NoError(t, err)

	// Decay floor is max(0.5, s*0.5): 0.8 -> 0.65 -> 0.575 -> 0.5375.
	assert.True(t, score.Value.Equal(decimal.NewFromFloat(537.5)), "got %s", score.Value)
	assert.Equal(t, []string{"INACTIVITY", "INACTIVITY", "INACTIVITY"}, history.eventTypes("entity-1"))

	saved := history.scores["entity-1"]
	assert.Equal(t, last.Add(90*24*time.Hour), saved.UpdatedAt)
}

func TestScoring_RangeMigrationOnRead(t *testing.T) {
	history := newFakeCreditHistory()
	history.scores["entity-1"] = model.CreditScore{
		EntityID:  "entity-1",
		Value:     decimal.NewFromInt(575),
		RangeMin:  decimal.NewFromInt(300),
		RangeMax:  decimal.NewFromInt(850),
		UpdatedAt: scoringNow,
	}
	engine := newScoringEngine(history)

	score, err := engine.Score(context.Background(), "entity-1", scoringNow)
	require.NoError(t, err)

	// 575 in [300,850] is the midpoint; in [0,1000] that is 500.
	assert.True(t, score.Value.Equal(decimal.NewFromInt(500)), "got %s", score.Value)

	saved := history.scores["entity-1"]
	assert.True(t, saved.RangeMin.IsZero())
	assert.True(t, saved.RangeMax.Equal(decimal.NewFromInt(1000)))
}

func TestScoring_LoanActivityKeepsScoreSteady(t *testing.T) {
	history := newFakeCreditHistory()
	history.scores["entity-1"] = storedScore("entity-1", 0.7, scoringNow)
	engine := newScoringEngine(history)

	err := engine.RecordLoanActivity(context.Background(), "entity-1", "loan-1", valueobject.CreditEventLoanOpen, scoringNow)
	require.NoError(t, err)

	// The outcome equals the current score, so the average does not move, but
	// the activity clock does.
	saved := history.scores["entity-1"]
	assert.True(t, saved.Value.Equal(decimal.NewFromInt(700)), "got %s", saved.Value)
	assert.Equal(t, []string{"LOAN_OPEN"}, history.eventTypes("entity-1"))
}

func TestScoring_PublishesScoreUpdates(t *testing.T) {
	history := newFakeCreditHistory()
	publisher := &fakePublisher{}
	engine := service.NewCreditScoringEngine(history, publisher, staticSettings{testSnapshot()}, testLogger())

	err := engine.RecordFullPayment(context.Background(), "entity-1", "loan-1", scoringNow)
	require.NoError(t, err)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, "lending.credit.score_updated", publisher.published[0].EventType())
}

func TestScoring_PublishFailureDoesNotFailOutcome(t *testing.T) {
	history := newFakeCreditHistory()
	publisher := &fakePublisher{err: context.DeadlineExceeded}
	engine := service.NewCreditScoringEngine(history, publisher, staticSettings{testSnapshot()}, testLogger())

	err := engine.RecordFullPayment(context.Background(), "entity-1", "loan-1", scoringNow)
	require.NoError(t, err)
	assert.NotEmpty(t, history.events)
}
