package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildbank/lending/internal/domain/model"
)

var testNow = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func newTestLoan(t *testing.T) model.Loan {
	t.Helper()
	terms, err := model.NewTerms(validTermsParams())
	require.NoError(t, err)
	loan, err := model.NewLoan("lender-1", "borrower-1", terms, false, testNow)
	require.NoError(t, err)
	return loan
}

func TestNewLoan_Valid(t *testing.T) {
	loan := newTestLoan(t)

	assert.NotEmpty(t, loan.ID())
	assert.Equal(t, "lender-1", loan.Lender())
	assert.Equal(t, "borrower-1", loan.Borrower())
	assert.True(t, loan.Balance().Equal(decimal.NewFromInt(1000)))
	assert.True(t, loan.InterestBalance().IsZero())
	assert.True(t, loan.FeeBalance().IsZero())
	assert.True(t, loan.Open())
	assert.Equal(t, 1, loan.Version())
	assert.Len(t, loan.DomainEvents(), 1)
	assert.Equal(t, "lending.loan.opened", loan.DomainEvents()[0].EventType())
}

func TestNewLoan_SelfLending(t *testing.T) {
	terms, err := model.NewTerms(validTermsParams())
	require.NoError(t, err)
	_, err = model.NewLoan("same", "same", terms, false, testNow)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoan_ApplyPayment_Waterfall(t *testing.T) {
	loan := newTestLoan(t)
	loan = loan.AssessFee(decimal.NewFromInt(5), testNow)
	loan = loan.AccruePeriodic(decimal.NewFromInt(10), testNow)

	// 12 covers the fees and part of the interest, nothing reaches principal.
	next, alloc, err := loan.ApplyPayment(decimal.NewFromInt(12), testNow)
	require.NoError(t, err)

	assert.True(t, alloc.Fees.Equal(decimal.NewFromInt(5)))
	assert.True(t, alloc.Interest.Equal(decimal.NewFromInt(7)))
	assert.True(t, alloc.Principal.IsZero())
	assert.True(t, alloc.Excess.IsZero())
	assert.True(t, next.FeeBalance().IsZero())
	assert.True(t, next.InterestBalance().Equal(decimal.NewFromInt(3)))
	assert.True(t, next.Balance().Equal(decimal.NewFromInt(1000)))
	assert.True(t, next.Open())
}

func TestLoan_ApplyPayment_ExcessReturned(t *testing.T) {
	loan := newTestLoan(t)

	next, alloc, err := loan.ApplyPayment(decimal.NewFromInt(1200), testNow)
	require.NoError(t, err)

	assert.True(t, alloc.Principal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, alloc.Excess.Equal(decimal.NewFromInt(200)))
	assert.True(t, alloc.Applied().Equal(decimal.NewFromInt(1000)))
	assert.False(t, next.Open())
}

func TestLoan_ApplyPayment_ClosesAtZero(t *testing.T) {
	loan := newTestLoan(t)

	next, _, err := loan.ApplyPayment(decimal.NewFromInt(1000), testNow)
	require.NoError(t, err)

	assert.True(t, next.CloseValue().IsZero())
	assert.False(t, next.Open())

	types := make([]string, 0, len(next.DomainEvents()))
	for _, ev := range next.DomainEvents() {
		types = append(types, ev.EventType())
	}
	assert.Contains(t, types, "lending.loan.closed")
}

func TestLoan_ApplyPayment_Closed(t *testing.T) {
	loan := newTestLoan(t)
	closed, _, err := loan.ApplyPayment(decimal.NewFromInt(1000), testNow)
	require.NoError(t, err)

	_, _, err = closed.ApplyPayment(decimal.NewFromInt(1), testNow)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestLoan_ApplyPayment_NonPositive(t *testing.T) {
	loan := newTestLoan(t)
	_, _, err := loan.ApplyPayment(decimal.Zero, testNow)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

func TestLoan_ApplyPayment_Immutable(t *testing.T) {
	loan := newTestLoan(t)
	before := loan.Balance()

	_, _, err := loan.ApplyPayment(decimal.NewFromInt(100), testNow)
	require.NoError(t, err)

	assert.True(t, loan.Balance().Equal(before))
	assert.True(t, loan.Open())
}

func TestLoan_Compound(t *testing.T) {
	loan := newTestLoan(t)
	loan = loan.AccruePeriodic(decimal.NewFromInt(50), testNow)

	next, moved := loan.Compound(testNow)
	assert.True(t, moved.Equal(decimal.NewFromInt(50)))
	assert.True(t, next.Balance().Equal(decimal.NewFromInt(1050)))
	assert.True(t, next.InterestBalance().IsZero())
}

func TestLoan_AccrueContinuous(t *testing.T) {
	loan := newTestLoan(t)
	later := testNow.Add(time.Hour)

	next := loan.AccrueContinuous(decimal.NewFromFloat(1.5), later)
	assert.True(t, next.Balance().Equal(decimal.NewFromFloat(1001.5)))
	assert.True(t, next.InterestBalance().IsZero())
	assert.Equal(t, later, next.LastUpdate())
}

func TestLoan_SellTo(t *testing.T) {
	loan := newTestLoan(t)

	next, err := loan.SellTo("lender-2", decimal.NewFromInt(900), testNow)
	require.NoError(t, err)

	assert.Equal(t, "lender-2", next.Lender())
	assert.True(t, next.Balance().Equal(loan.Balance()))

	types := make([]string, 0, len(next.DomainEvents()))
	for _, ev := range next.DomainEvents() {
		types = append(types, ev.EventType())
	}
	assert.Contains(t, types, "lending.loan.sold")
}

func TestLoan_SellTo_Borrower(t *testing.T) {
	loan := newTestLoan(t)
	_, err := loan.SellTo("borrower-1", decimal.NewFromInt(900), testNow)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "borrower cannot buy")
}

func TestLoan_SellTo_Closed(t *testing.T) {
	loan := newTestLoan(t)
	closed, _, err := loan.ApplyPayment(decimal.NewFromInt(1000), testNow)
	require.NoError(t, err)

	_, err = closed.SellTo("lender-2", decimal.NewFromInt(1), testNow)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestLoan_SetAutoPay(t *testing.T) {
	loan := newTestLoan(t)
	assert.False(t, loan.AutoPay())

	next, err := loan.SetAutoPay(true, testNow)
	require.NoError(t, err)

	assert.True(t, next.AutoPay())
	assert.False(t, loan.AutoPay())

	types := make([]string, 0, len(next.DomainEvents()))
	for _, ev := range next.DomainEvents() {
		types = append(types, ev.EventType())
	}
	assert.Contains(t, types, "lending.loan.modified")
}

func TestLoan_SetAutoPay_Closed(t *testing.T) {
	loan := newTestLoan(t)
	closed, _, err := loan.ApplyPayment(decimal.NewFromInt(1000), testNow)
	require.NoError(t, err)

	_, err = closed.SetAutoPay(true, testNow)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestLoan_Committed(t *testing.T) {
	loan := newTestLoan(t)
	assert.Equal(t, 1, loan.Version())
	assert.Equal(t, 2, loan.Committed().Version())
	assert.Equal(t, 1, loan.Version())
}

func TestLoan_ClearEvents(t *testing.T) {
	loan := newTestLoan(t)
	assert.NotEmpty(t, loan.DomainEvents())
	assert.Empty(t, loan.ClearEvents().DomainEvents())
}
