package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// LoanEventType – scheduled-action tag with a fixed tie-break priority
// ---------------------------------------------------------------------------

// LoanEventType identifies a scheduled action against a loan. Due events are
// processed in non-decreasing scheduled-time order; events sharing a timestamp
// are ordered by Priority, so interest is folded before fees are assessed and
// a statement is issued before its payment falls due.
type LoanEventType struct {
	value string
}

const (
	eventTypeOpen              = "OPEN"
	eventTypeCompound          = "COMPOUND"
	eventTypeInterestAccrual   = "INTERESTACCRUAL"
	eventTypeServiceFee        = "SERVICEFEE"
	eventTypeStatementOut      = "STATEMENTOUT"
	eventTypePaymentDue        = "PAYMENTDUE"
	eventTypeLateFee           = "LATEFEE"
	eventTypePaymentMade       = "PAYMENTMADE"
	eventTypeExtraPrincipal    = "EXTRA_PRINCIPAL_PAID"
	eventTypeExtraInterest     = "EXTRA_INTEREST_PAID"
	eventTypeExtraFees         = "EXTRA_FEES_PAID"
	eventTypeClose             = "CLOSE"
)

var (
	EventTypeOpen            = LoanEventType{value: eventTypeOpen}
	EventTypeCompound        = LoanEventType{value: eventTypeCompound}
	EventTypeInterestAccrual = LoanEventType{value: eventTypeInterestAccrual}
	EventTypeServiceFee      = LoanEventType{value: eventTypeServiceFee}
	EventTypeStatementOut    = LoanEventType{value: eventTypeStatementOut}
	EventTypePaymentDue      = LoanEventType{value: eventTypePaymentDue}
	EventTypeLateFee         = LoanEventType{value: eventTypeLateFee}
	EventTypePaymentMade     = LoanEventType{value: eventTypePaymentMade}
	EventTypeExtraPrincipal  = LoanEventType{value: eventTypeExtraPrincipal}
	EventTypeExtraInterest   = LoanEventType{value: eventTypeExtraInterest}
	EventTypeExtraFees       = LoanEventType{value: eventTypeExtraFees}
	EventTypeClose           = LoanEventType{value: eventTypeClose}
)

var validLoanEventTypes = map[string]LoanEventType{
	eventTypeOpen:            EventTypeOpen,
	eventTypeCompound:        EventTypeCompound,
	eventTypeInterestAccrual: EventTypeInterestAccrual,
	eventTypeServiceFee:      EventTypeServiceFee,
	eventTypeStatementOut:    EventTypeStatementOut,
	eventTypePaymentDue:      EventTypePaymentDue,
	eventTypeLateFee:         EventTypeLateFee,
	eventTypePaymentMade:     EventTypePaymentMade,
	eventTypeExtraPrincipal:  EventTypeExtraPrincipal,
	eventTypeExtraInterest:   EventTypeExtraInterest,
	eventTypeExtraFees:       EventTypeExtraFees,
	eventTypeClose:           EventTypeClose,
}

// Same-timestamp processing order. Lower runs first.
var loanEventPriorities = map[string]int{
	eventTypeOpen:            0,
	eventTypeCompound:        1,
	eventTypeInterestAccrual: 2,
	eventTypeServiceFee:      3,
	eventTypeStatementOut:    4,
	eventTypePaymentDue:      5,
	eventTypeLateFee:         6,
	eventTypePaymentMade:     7,
	eventTypeExtraPrincipal:  8,
	eventTypeExtraInterest:   9,
	eventTypeExtraFees:       10,
	eventTypeClose:           11,
}

// NewLoanEventType creates a LoanEventType from a raw string.
func NewLoanEventType(s string) (LoanEventType, error) {
	v, ok := validLoanEventTypes[s]
	if !ok {
		return LoanEventType{}, fmt.Errorf("invalid loan event type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the event type.
func (t LoanEventType) String() string { return t.value }

// Equal reports whether two event types are the same.
func (t LoanEventType) Equal(other LoanEventType) bool { return t.value == other.value }

// Priority returns the fixed same-timestamp ordering rank.
func (t LoanEventType) Priority() int { return loanEventPriorities[t.value] }
