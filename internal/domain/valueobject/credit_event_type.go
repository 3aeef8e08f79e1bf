package valueobject

import "fmt"

// CreditEventType identifies an entry in an entity's credit history.
type CreditEventType struct {
	value string
}

const (
	creditEventFullPayment    = "FULL_PAYMENT"
	creditEventMinimumPayment = "MINIMUM_PAYMENT"
	creditEventMissedPayment  = "MISSED_PAYMENT"
	creditEventInactivity     = "INACTIVITY"
	creditEventCreditLimit    = "CREDIT_LIMIT"
	creditEventUtilization    = "CREDIT_UTILIZATION"
	creditEventPayoff         = "PAYOFF"
	creditEventOverpayment    = "OVERPAYMENT"
	creditEventBankrupt       = "BANKRUPT"
	creditEventLoanOpen       = "LOAN_OPEN"
	creditEventLoanClose      = "LOAN_CLOSE"
	creditEventLoanModify     = "LOAN_MODIFY"
)

var (
	CreditEventFullPayment    = CreditEventType{value: creditEventFullPayment}
	CreditEventMinimumPayment = CreditEventType{value: creditEventMinimumPayment}
	CreditEventMissedPayment  = CreditEventType{value: creditEventMissedPayment}
	CreditEventInactivity     = CreditEventType{value: creditEventInactivity}
	CreditEventCreditLimit    = CreditEventType{value: creditEventCreditLimit}
	CreditEventUtilization    = CreditEventType{value: creditEventUtilization}
	CreditEventPayoff         = CreditEventType{value: creditEventPayoff}
	CreditEventOverpayment    = CreditEventType{value: creditEventOverpayment}
	CreditEventBankrupt       = CreditEventType{value: creditEventBankrupt}
	CreditEventLoanOpen       = CreditEventType{value: creditEventLoanOpen}
	CreditEventLoanClose      = CreditEventType{value: creditEventLoanClose}
	CreditEventLoanModify     = CreditEventType{value: creditEventLoanModify}
)

var validCreditEventTypes = map[string]CreditEventType{
	creditEventFullPayment:    CreditEventFullPayment,
	creditEventMinimumPayment: CreditEventMinimumPayment,
	creditEventMissedPayment:  CreditEventMissedPayment,
	creditEventInactivity:     CreditEventInactivity,
	creditEventCreditLimit:    CreditEventCreditLimit,
	creditEventUtilization:    CreditEventUtilization,
	creditEventPayoff:         CreditEventPayoff,
	creditEventOverpayment:    CreditEventOverpayment,
	creditEventBankrupt:       CreditEventBankrupt,
	creditEventLoanOpen:       CreditEventLoanOpen,
	creditEventLoanClose:      CreditEventLoanClose,
	creditEventLoanModify:     CreditEventLoanModify,
}

// NewCreditEventType creates a CreditEventType from a raw string.
func NewCreditEventType(s string) (CreditEventType, error) {
	v, ok := validCreditEventTypes[s]
	if !ok {
		return CreditEventType{}, fmt.Errorf("invalid credit event type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the type.
func (t CreditEventType) String() string { return t.value }

// Equal reports whether two credit event types are the same.
func (t CreditEventType) Equal(other CreditEventType) bool { return t.value == other.value }
