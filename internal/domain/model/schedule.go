package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/guildbank/lending/internal/domain/valueobject"
)

// Namespace for deterministic scheduled-event IDs. Rebuilding a schedule from
// the same loan ID, terms and start time yields byte-identical events.
var scheduleNamespace = uuid.MustParse("8f2d1c0a-5b77-4a4e-9a63-2f4f5d8e1b90")

// ScheduledEvent is one planned, time-stamped action against a loan. Events
// are immutable once created except for the executed flag and, for
// amount-bearing events, the final recorded amount.
type ScheduledEvent struct {
	ID       string
	LoanID   string
	Time     time.Time
	Type     valueobject.LoanEventType
	Amount   decimal.Decimal
	Executed bool
}

// BuildSchedule computes the full deterministic list of scheduled actions for
// a loan's lifetime: the payment cadence with its late-fee and statement
// satellites, the service-fee cadence, the compounding cadence, and the
// already-executed OPEN event. It is a pure projection; amounts on recurring
// events are planned values corrected at execution time.
func BuildSchedule(loan Loan, reportingPeriod time.Duration) []ScheduledEvent {
	terms := loan.Terms()
	start := loan.StartTime()
	seq := 0

	next := func(t time.Time, typ valueobject.LoanEventType, amount decimal.Decimal, executed bool) ScheduledEvent {
		seq++
		return ScheduledEvent{
			ID:       scheduledEventID(loan.ID(), typ, t, seq),
			LoanID:   loan.ID(),
			Time:     t,
			Type:     typ,
			Amount:   amount,
			Executed: executed,
		}
	}

	events := []ScheduledEvent{
		next(start, valueobject.EventTypeOpen, terms.Principal(), true),
	}
	if terms.OpenEnded() {
		// Open-ended loans have no projected cadence; accrual happens on
		// demand and the close event is appended when the balance retires.
		return events
	}

	maturity := start.Add(terms.Term())
	installment := PlannedInstallment(terms, reportingPeriod)

	emitTriplet := func(due time.Time) {
		events = append(events,
			next(due.Add(-terms.PaymentTime()), valueobject.EventTypeStatementOut, installment, false),
			next(due, valueobject.EventTypePaymentDue, installment, false),
			next(due.Add(terms.GracePeriod()), valueobject.EventTypeLateFee, terms.LateFee(), false),
		)
	}

	n := terms.PaymentCount()
	last := start
	for i := 1; i <= n; i++ {
		last = start.Add(time.Duration(i) * terms.PaymentFrequency())
		emitTriplet(last)
	}
	if !last.Equal(maturity) {
		emitTriplet(maturity)
	}

	if terms.ServiceFeeFrequency() > 0 && terms.ServiceFee().IsPositive() {
		for t := start.Add(terms.ServiceFeeFrequency()); t.Before(maturity); t = t.Add(terms.ServiceFeeFrequency()) {
			events = append(events, next(t, valueobject.EventTypeServiceFee, terms.ServiceFee(), false))
		}
	}

	if cp := terms.CompoundingPeriod(); cp > 0 {
		t := start.Add(cp)
		for ; !t.After(maturity); t = t.Add(cp) {
			events = append(events, next(t, valueobject.EventTypeCompound, decimal.Zero, false))
		}
		if !t.Add(-cp).Equal(maturity) {
			events = append(events, next(maturity, valueobject.EventTypeCompound, decimal.Zero, false))
		}
	}

	return events
}

func scheduledEventID(loanID string, typ valueobject.LoanEventType, t time.Time, seq int) string {
	name := fmt.Sprintf("%s|%s|%d|%d", loanID, typ, t.UnixNano(), seq)
	return uuid.NewSHA1(scheduleNamespace, []byte(name)).String()
}

// ---------------------------------------------------------------------------
// Per-type installment policy
// ---------------------------------------------------------------------------

type installmentFunc func(terms Terms, periodRate float64, periods int) decimal.Decimal

// Planned periodic payment by loan type. Types missing from the table owe
// nothing per period; their entire close value is billed at maturity.
var installmentPolicies = map[string]installmentFunc{
	valueobject.LoanTypeAmortizing.String(): amortizedInstallment,
	valueobject.LoanTypeInterestOnly.String(): func(terms Terms, periodRate float64, _ int) decimal.Decimal {
		return mulFloat(terms.Principal(), periodRate)
	},
	valueobject.LoanTypeFixedFee.String(): func(terms Terms, _ float64, periods int) decimal.Decimal {
		return terms.Principal().Div(decimal.NewFromInt(int64(periods)))
	},
}

// PlannedInstallment computes the planned per-period payment for the loan
// type. The interest rate is configured per reporting period and prorated to
// the payment frequency.
func PlannedInstallment(terms Terms, reportingPeriod time.Duration) decimal.Decimal {
	periods := terms.PaymentCount()
	if periods == 0 || terms.OpenEnded() {
		return decimal.Zero
	}
	// A maturity date off the regular cadence gets one extra, final payment.
	if time.Duration(periods)*terms.PaymentFrequency() != terms.Term() {
		periods++
	}

	policy, ok := installmentPolicies[terms.LoanType().String()]
	if !ok {
		return decimal.Zero
	}

	periodRate := proratedRate(terms.InterestRate(), terms.PaymentFrequency(), reportingPeriod)
	return policy(terms, periodRate, periods)
}

// amortizedInstallment is the standard fixed-payment formula
// P·(r + r/((1+r)^n − 1)); with r = 0 it degrades to an even split.
func amortizedInstallment(terms Terms, periodRate float64, periods int) decimal.Decimal {
	if periodRate == 0 {
		return terms.Principal().Div(decimal.NewFromInt(int64(periods)))
	}
	factor := math.Pow(1+periodRate, float64(periods)) - 1
	rate := periodRate + periodRate/factor
	return mulFloat(terms.Principal(), rate)
}

// proratedRate converts the per-reporting-period rate to the payment cadence.
// Transcendental math runs in float64; money stays decimal.
func proratedRate(rate decimal.Decimal, frequency, reportingPeriod time.Duration) float64 {
	if reportingPeriod <= 0 {
		return rate.InexactFloat64()
	}
	return rate.InexactFloat64() * float64(frequency) / float64(reportingPeriod)
}

func mulFloat(d decimal.Decimal, f float64) decimal.Decimal {
	return d.Mul(decimal.NewFromFloat(f))
}
