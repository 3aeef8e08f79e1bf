package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/guildbank/lending/internal/domain/valueobject"
)

// CreditEvent is one recorded outcome in an entity's credit history. Value is
// the raw outcome in [0,1]; Weight overrides the configured smoothing factor
// when set (bankruptcy pins it to 1).
type CreditEvent struct {
	ID       string
	EntityID string
	Type     valueobject.CreditEventType
	Value    decimal.Decimal
	Weight   decimal.Decimal // negative means "use configured alpha"
	LoanID   string
	At       time.Time
}

// NewCreditEvent records an outcome with the configured smoothing weight.
func NewCreditEvent(entityID string, typ valueobject.CreditEventType, value decimal.Decimal, loanID string, at time.Time) CreditEvent {
	return CreditEvent{
		ID:       uuid.New().String(),
		EntityID: entityID,
		Type:     typ,
		Value:    value,
		Weight:   decimal.NewFromInt(-1),
		LoanID:   loanID,
		At:       at,
	}
}

// NewWeightedCreditEvent records an outcome with an explicit smoothing weight.
func NewWeightedCreditEvent(entityID string, typ valueobject.CreditEventType, value, weight decimal.Decimal, loanID string, at time.Time) CreditEvent {
	ev := NewCreditEvent(entityID, typ, value, loanID, at)
	ev.Weight = weight
	return ev
}

// HasWeight reports whether the event carries its own smoothing weight.
func (e CreditEvent) HasWeight() bool { return !e.Weight.IsNegative() }

// CreditScore is the current exponentially smoothed score for an entity,
// together with the output range it was scaled into. Storing the range lets a
// deployment change its configured score range and migrate rows lazily on
// read.
type CreditScore struct {
	EntityID  string
	Value     decimal.Decimal
	RangeMin  decimal.Decimal
	RangeMax  decimal.Decimal
	UpdatedAt time.Time
}

// Normalized maps the stored score back into [0,1].
func (s CreditScore) Normalized() decimal.Decimal {
	span := s.RangeMax.Sub(s.RangeMin)
	if span.IsZero() {
		return decimal.Zero
	}
	return s.Value.Sub(s.RangeMin).Div(span)
}

// Rescale maps the score into a different output range.
func (s CreditScore) Rescale(min, max decimal.Decimal) CreditScore {
	next := s
	next.Value = min.Add(s.Normalized().Mul(max.Sub(min)))
	next.RangeMin = min
	next.RangeMax = max
	return next
}

// Entity is a participant in the shared economy: a player, guild, or the bank
// itself. Entities are referenced by ID from loans, offers, and scores.
type Entity struct {
	ID        string
	Name      string
	Kind      string
	CreatedAt time.Time
}
