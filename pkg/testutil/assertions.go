package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// AssertDecimalEqual compares decimals by value, not representation.
func AssertDecimalEqual(t *testing.T, expected, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, expected.Equal(actual), append([]interface{}{"expected %s, got %s", expected, actual}, msgAndArgs...)...)
}

// AssertDecimalWithin checks that actual is within delta of expected.
func AssertDecimalWithin(t *testing.T, expected, actual decimal.Decimal, delta float64) {
	t.Helper()
	diff := expected.Sub(actual).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(delta)),
		"expected %s within %v of %s, diff %s", actual, delta, expected, diff)
}
