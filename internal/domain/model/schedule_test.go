package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/valueobject"
)

const reportingPeriod = 24 * time.Hour

func countByType(events []model.ScheduledEvent) map[string]int {
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Type.String()]++
	}
	return counts
}

func TestBuildSchedule_Deterministic(t *testing.T) {
	loan := newTestLoan(t)

	first := model.BuildSchedule(loan, reportingPeriod)
	second := model.BuildSchedule(loan, reportingPeriod)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Time, second[i].Time)
		assert.True(t, first[i].Type.Equal(second[i].Type))
	}
}

func TestBuildSchedule_OpenExecuted(t *testing.T) {
	loan := newTestLoan(t)

	events := model.BuildSchedule(loan, reportingPeriod)
	require.NotEmpty(t, events)

	open := events[0]
	assert.True(t, open.Type.Equal(valueobject.EventTypeOpen))
	assert.True(t, open.Executed)
	assert.Equal(t, loan.StartTime(), open.Time)
	assert.True(t, open.Amount.Equal(loan.Terms().Principal()))
}

func TestBuildSchedule_OpenEnded(t *testing.T) {
	p := validTermsParams()
	p.Term = 0
	p.PaymentFrequency = 0
	terms, err := model.NewTerms(p)
	require.NoError(t, err)
	loan, err := model.NewLoan("lender-1", "borrower-1", terms, false, testNow)
	require.NoError(t, err)

	events := model.BuildSchedule(loan, reportingPeriod)
	require.Len(t, events, 1)
	assert.True(t, events[0].Type.Equal(valueobject.EventTypeOpen))
}

func TestBuildSchedule_PaymentTriplets(t *testing.T) {
	// 360-day term on a 30-day cadence lands exactly on maturity: 12 cycles,
	// each with a statement, a due date, and a late-fee checkpoint.
	loan := newTestLoan(t)

	events := model.BuildSchedule(loan, reportingPeriod)
	counts := countByType(events)

	assert.Equal(t, 12, counts["STATEMENTOUT"])
	assert.Equal(t, 12, counts["PAYMENTDUE"])
	assert.Equal(t, 12, counts["LATEFEE"])
}

func TestBuildSchedule_TripletOffsets(t *testing.T) {
	loan := newTestLoan(t)
	terms := loan.Terms()

	events := model.BuildSchedule(loan, reportingPeriod)
	due := loan.StartTime().Add(terms.PaymentFrequency())

	var stmt, pay, late *model.ScheduledEvent
	for i := range events {
		ev := &events[i]
		switch {
		case ev.Type.Equal(valueobject.EventTypeStatementOut) && stmt == nil:
			stmt = ev
		case ev.Type.Equal(valueobject.EventTypePaymentDue) && pay == nil:
			pay = ev
		case ev.Type.Equal(valueobject.EventTypeLateFee) && late == nil:
			late = ev
		}
	}
	require.NotNil(t, stmt)
	require.NotNil(t, pay)
	require.NotNil(t, late)

	assert.Equal(t, due.Add(-terms.PaymentTime()), stmt.Time)
	assert.Equal(t, due, pay.Time)
	assert.Equal(t, due.Add(terms.GracePeriod()), late.Time)
	assert.True(t, late.Amount.Equal(terms.LateFee()))
}

func TestBuildSchedule_MisalignedMaturityGetsFinalTriplet(t *testing.T) {
	// 100-day term on a 30-day cadence: 3 regular cycles plus a final one at
	// maturity.
	p := validTermsParams()
	p.Term = 100 * 24 * time.Hour
	terms, err := model.NewTerms(p)
	require.NoError(t, err)
	loan, err := model.NewLoan("lender-1", "borrower-1", terms, false, testNow)
	require.NoError(t, err)

	events := model.BuildSchedule(loan, reportingPeriod)
	counts := countByType(events)
	assert.Equal(t, 4, counts["PAYMENTDUE"])

	maturity := loan.StartTime().Add(terms.Term())
	var foundFinal bool
	for _, ev := range events {
		if ev.Type.Equal(valueobject.EventTypePaymentDue) && ev.Time.Equal(maturity) {
			foundFinal = true
		}
	}
	assert.True(t, foundFinal)
}

func TestBuildSchedule_ServiceFeesStopBeforeMaturity(t *testing.T) {
	p := validTermsParams()
	p.ServiceFee = decimal.NewFromInt(2)
	p.ServiceFeeFrequency = 90 * 24 * time.Hour
	terms, err := model.NewTerms(p)
	require.NoError(t, err)
	loan, err := model.NewLoan("lender-1", "borrower-1", terms, false, testNow)
	require.NoError(t, err)

	events := model.BuildSchedule(loan, reportingPeriod)
	maturity := loan.StartTime().Add(terms.Term())

	count := 0
	for _, ev := range events {
		if ev.Type.Equal(valueobject.EventTypeServiceFee) {
			count++
			assert.True(t, ev.Time.Before(maturity))
		}
	}
	// Days 90, 180, 270; day 360 is maturity and is excluded.
	assert.Equal(t, 3, count)
}

func TestBuildSchedule_CompoundIncludesMaturity(t *testing.T) {
	p := validTermsParams()
	p.CompoundingPeriod = 90 * 24 * time.Hour
	terms, err := model.NewTerms(p)
	require.NoError(t, err)
	loan, err := model.NewLoan("lender-1", "borrower-1", terms, false, testNow)
	require.NoError(t, err)

	events := model.BuildSchedule(loan, reportingPeriod)
	maturity := loan.StartTime().Add(terms.Term())

	count := 0
	var atMaturity bool
	for _, ev := range events {
		if ev.Type.Equal(valueobject.EventTypeCompound) {
			count++
			if ev.Time.Equal(maturity) {
				atMaturity = true
			}
		}
	}
	// Days 90, 180, 270, 360.
	assert.Equal(t, 4, count)
	assert.True(t, atMaturity)
}

func TestPlannedInstallment_AmortizingZeroRate(t *testing.T) {
	p := validTermsParams()
	p.InterestRate = decimal.Zero
	terms, err := model.NewTerms(p)
	require.NoError(t, err)

	installment := model.PlannedInstallment(terms, reportingPeriod)
	// 1000 over 12 even payments.
	diff := installment.Sub(decimal.NewFromInt(1000).Div(decimal.NewFromInt(12))).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(0.0001)), "got %s", installment)
}

func TestPlannedInstallment_AmortizingRetiresPrincipal(t *testing.T) {
	terms, err := model.NewTerms(validTermsParams())
	require.NoError(t, err)

	installment := model.PlannedInstallment(terms, reportingPeriod)
	require.True(t, installment.IsPositive())

	// Simulating the amortization: each cycle accrues one period of simple
	// interest, then the installment lands. The balance must reach zero after
	// the last payment, within rounding noise.
	periodRate := terms.InterestRate().
		Mul(decimal.NewFromInt(int64(terms.PaymentFrequency() / reportingPeriod)))
	balance := terms.Principal()
	for i := 0; i < terms.PaymentCount(); i++ {
		balance = balance.Add(balance.Mul(periodRate)).Sub(installment)
	}
	assert.True(t, balance.Abs().LessThan(decimal.NewFromFloat(0.01)), "residual %s", balance)
}

func TestPlannedInstallment_InterestOnly(t *testing.T) {
	p := validTermsParams()
	p.LoanType = valueobject.LoanTypeInterestOnly
	terms, err := model.NewTerms(p)
	require.NoError(t, err)

	installment := model.PlannedInstallment(terms, reportingPeriod)
	// 0.05 per day prorated to a 30-day cadence: 1000 * 1.5.
	diff := installment.Sub(decimal.NewFromInt(1500)).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(0.0001)), "got %s", installment)
}

func TestPlannedInstallment_FixedFee(t *testing.T) {
	p := validTermsParams()
	p.LoanType = valueobject.LoanTypeFixedFee
	terms, err := model.NewTerms(p)
	require.NoError(t, err)

	installment := model.PlannedInstallment(terms, reportingPeriod)
	diff := installment.Sub(decimal.NewFromInt(1000).Div(decimal.NewFromInt(12))).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(0.0001)), "got %s", installment)
}

func TestPlannedInstallment_BulletOwesNothingPerPeriod(t *testing.T) {
	p := validTermsParams()
	p.LoanType = valueobject.LoanTypeBullet
	terms, err := model.NewTerms(p)
	require.NoError(t, err)

	assert.True(t, model.PlannedInstallment(terms, reportingPeriod).IsZero())
}

func TestPlannedInstallment_MisalignedAddsFinalPeriod(t *testing.T) {
	p := validTermsParams()
	p.Term = 100 * 24 * time.Hour
	p.LoanType = valueobject.LoanTypeFixedFee
	terms, err := model.NewTerms(p)
	require.NoError(t, err)

	installment := model.PlannedInstallment(terms, reportingPeriod)
	// 3 regular cycles plus the final misaligned one: 1000 / 4.
	assert.True(t, installment.Equal(decimal.NewFromInt(250)), "got %s", installment)
}
