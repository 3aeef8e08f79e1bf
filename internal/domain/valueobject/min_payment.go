package valueobject

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MinPayment is the minimum-payment rule attached to loan terms: either a
// fixed amount or a percentage of the billed balance.
type MinPayment struct {
	value      decimal.Decimal
	percentage bool
}

// NewMinPayment creates a minimum-payment rule. Percentage values are
// fractions in [0,1].
func NewMinPayment(value decimal.Decimal, percentage bool) (MinPayment, error) {
	if value.IsNegative() {
		return MinPayment{}, errors.New("minimum payment value must not be negative")
	}
	if percentage && value.GreaterThan(decimal.NewFromInt(1)) {
		return MinPayment{}, errors.New("minimum payment percentage must be at most 1")
	}
	return MinPayment{value: value, percentage: percentage}, nil
}

// Amount computes the minimum due for a bill. Never exceeds the bill.
func (m MinPayment) Amount(bill decimal.Decimal) decimal.Decimal {
	min := m.value
	if m.percentage {
		min = bill.Mul(m.value)
	}
	if min.GreaterThan(bill) {
		return bill
	}
	return min
}

// Value returns the raw rule value.
func (m MinPayment) Value() decimal.Decimal { return m.value }

// Percentage reports whether the rule is a percentage of the bill.
func (m MinPayment) Percentage() bool { return m.percentage }
