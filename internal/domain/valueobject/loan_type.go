package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// LoanType – closed tagged variant selecting per-type payment policy
// ---------------------------------------------------------------------------

// LoanType classifies a loan's financial behavior. The set is closed: payment
// amount calculation and credit-utilization applicability are looked up in
// per-type policy tables rather than dispatched over subclasses.
type LoanType struct {
	value string
}

const (
	loanTypeAmortizing   = "AMORTIZING"
	loanTypeBullet       = "BULLET"
	loanTypeInterestOnly = "INTEREST_ONLY"
	loanTypeFixedFee     = "FIXED_FEE"
	loanTypeCredit       = "CREDIT"
	loanTypeGift         = "GIFT"
	loanTypeBond         = "BOND"
	loanTypeDeposit      = "DEPOSIT"
	loanTypeSalary       = "SALARY"
)

var (
	LoanTypeAmortizing   = LoanType{value: loanTypeAmortizing}
	LoanTypeBullet       = LoanType{value: loanTypeBullet}
	LoanTypeInterestOnly = LoanType{value: loanTypeInterestOnly}
	LoanTypeFixedFee     = LoanType{value: loanTypeFixedFee}
	LoanTypeCredit       = LoanType{value: loanTypeCredit}
	LoanTypeGift         = LoanType{value: loanTypeGift}
	LoanTypeBond         = LoanType{value: loanTypeBond}
	LoanTypeDeposit      = LoanType{value: loanTypeDeposit}
	LoanTypeSalary       = LoanType{value: loanTypeSalary}
)

var validLoanTypes = map[string]LoanType{
	loanTypeAmortizing:   LoanTypeAmortizing,
	loanTypeBullet:       LoanTypeBullet,
	loanTypeInterestOnly: LoanTypeInterestOnly,
	loanTypeFixedFee:     LoanTypeFixedFee,
	loanTypeCredit:       LoanTypeCredit,
	loanTypeGift:         LoanTypeGift,
	loanTypeBond:         LoanTypeBond,
	loanTypeDeposit:      LoanTypeDeposit,
	loanTypeSalary:       LoanTypeSalary,
}

// NewLoanType creates a LoanType from a raw string.
func NewLoanType(s string) (LoanType, error) {
	v, ok := validLoanTypes[s]
	if !ok {
		return LoanType{}, fmt.Errorf("invalid loan type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the type.
func (t LoanType) String() string { return t.value }

// Equal reports whether two loan types are the same.
func (t LoanType) Equal(other LoanType) bool { return t.value == other.value }

// Revolving reports whether credit-utilization scoring applies to this type.
func (t LoanType) Revolving() bool { return t.value == loanTypeCredit }
