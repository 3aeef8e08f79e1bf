package port

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings exposes the tunable engine parameters. Implementations may reload
// at runtime; engines take a Snapshot per operation so one operation never
// sees two different values for the same parameter.
type Settings interface {
	Snapshot() SettingsSnapshot
}

// SettingsSnapshot is a point-in-time copy of every engine parameter.
type SettingsSnapshot struct {
	// InterestReportingPeriod is the period interest rates are quoted over.
	// Accrual between events is prorated against it.
	InterestReportingPeriod time.Duration

	// SweepInterval is the cadence of the background lifecycle sweep, and
	// SweepJitter the random per-loan delay spread to avoid thundering herds.
	SweepInterval time.Duration
	SweepJitter   time.Duration
	SweepWorkers  int

	// OfferTTL is the default lifetime of an extended offer.
	OfferTTL time.Duration

	// Alpha is the smoothing factor of the score average: how hard a single
	// outcome pulls the running score.
	Alpha decimal.Decimal

	// NoHistoryScore is the normalized starting score for an entity with no
	// credit history; SubprimeScore is the outcome value of a minimum-only
	// payment; BankruptcyScore is the outcome a declared bankruptcy collapses
	// the score to.
	NoHistoryScore  decimal.Decimal
	SubprimeScore   decimal.Decimal
	BankruptcyScore decimal.Decimal

	// InactivityPeriod is how long without credit activity before decay ticks
	// accrue; InactivityFactor scales the score per tick.
	InactivityPeriod time.Duration
	InactivityFactor decimal.Decimal

	// CreditLimitFactor scales the score when a revolving limit is raised.
	// UtilizationFactor and UtilizationGoal shape the utilization outcome.
	CreditLimitFactor  decimal.Decimal
	UtilizationFactor  decimal.Decimal
	UtilizationGoal    decimal.Decimal
	OverpaymentPenalty decimal.Decimal

	// ScoreRangeMin/Max define the published score range; SigFigs the rounding
	// applied to published scores.
	ScoreRangeMin decimal.Decimal
	ScoreRangeMax decimal.Decimal
	SigFigs       int32
}

// Validate checks the snapshot for values the engines cannot run with.
func (s SettingsSnapshot) Validate() error {
	one := decimal.NewFromInt(1)
	switch {
	case s.InterestReportingPeriod <= 0:
		return NewConfigurationError("interest reporting period must be positive")
	case s.SweepInterval <= 0:
		return NewConfigurationError("sweep interval must be positive")
	case s.SweepWorkers <= 0:
		return NewConfigurationError("sweep worker count must be positive")
	case s.OfferTTL <= 0:
		return NewConfigurationError("offer time-to-live must be positive")
	case s.Alpha.LessThanOrEqual(decimal.Zero) || s.Alpha.GreaterThan(one):
		return NewConfigurationError("alpha must be in (0,1]")
	case s.NoHistoryScore.IsNegative() || s.NoHistoryScore.GreaterThan(one):
		return NewConfigurationError("no-history score must be in [0,1]")
	case s.SubprimeScore.IsNegative() || s.SubprimeScore.GreaterThan(one):
		return NewConfigurationError("subprime score must be in [0,1]")
	case s.BankruptcyScore.IsNegative() || s.BankruptcyScore.GreaterThan(one):
		return NewConfigurationError("bankruptcy score must be in [0,1]")
	case s.InactivityPeriod <= 0:
		return NewConfigurationError("inactivity period must be positive")
	case s.InactivityFactor.IsNegative() || s.InactivityFactor.GreaterThan(one):
		return NewConfigurationError("inactivity factor must be in [0,1]")
	case s.ScoreRangeMax.LessThanOrEqual(s.ScoreRangeMin):
		return NewConfigurationError("score range max must exceed min")
	case s.SigFigs <= 0:
		return NewConfigurationError("significant figures must be positive")
	}
	return nil
}
