package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/guildbank/lending/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Offer events
// ---------------------------------------------------------------------------

// OfferExtended is raised when a lender extends an offer to a borrower.
type OfferExtended struct {
	events.BaseEvent
	Lender    string          `json:"lender"`
	Borrower  string          `json:"borrower"`
	Principal decimal.Decimal `json:"principal"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func NewOfferExtended(offerID, lender, borrower string, principal decimal.Decimal, expiresAt time.Time) OfferExtended {
	return OfferExtended{
		BaseEvent: events.NewBaseEvent("lending.offer.extended", offerID, "Offer"),
		Lender:    lender,
		Borrower:  borrower,
		Principal: principal,
		ExpiresAt: expiresAt,
	}
}

// OfferAccepted is raised when a borrower accepts an offer and the loan is
// funded.
type OfferAccepted struct {
	events.BaseEvent
	LoanID   string `json:"loan_id"`
	Borrower string `json:"borrower"`
}

func NewOfferAccepted(offerID, loanID, borrower string) OfferAccepted {
	return OfferAccepted{
		BaseEvent: events.NewBaseEvent("lending.offer.accepted", offerID, "Offer"),
		LoanID:    loanID,
		Borrower:  borrower,
	}
}

// OfferExpired is raised when the sweep retires a stale offer.
type OfferExpired struct {
	events.BaseEvent
	Lender string `json:"lender"`
}

func NewOfferExpired(offerID, lender string) OfferExpired {
	return OfferExpired{
		BaseEvent: events.NewBaseEvent("lending.offer.expired", offerID, "Offer"),
		Lender:    lender,
	}
}

// ---------------------------------------------------------------------------
// Loan events
// ---------------------------------------------------------------------------

// LoanOpened is raised when funds move lender to borrower and the loan record
// is created.
type LoanOpened struct {
	events.BaseEvent
	Lender    string          `json:"lender"`
	Borrower  string          `json:"borrower"`
	Principal decimal.Decimal `json:"principal"`
	LoanType  string          `json:"loan_type"`
	Maturity  time.Time       `json:"maturity,omitzero"`
}

func NewLoanOpened(loanID, lender, borrower string, principal decimal.Decimal, loanType string, maturity time.Time) LoanOpened {
	return LoanOpened{
		BaseEvent: events.NewBaseEvent("lending.loan.opened", loanID, "Loan"),
		Lender:    lender,
		Borrower:  borrower,
		Principal: principal,
		LoanType:  loanType,
		Maturity:  maturity,
	}
}

// PaymentApplied is raised when a payment is allocated across a loan's
// balances.
type PaymentApplied struct {
	events.BaseEvent
	Payer      string          `json:"payer"`
	Fees       decimal.Decimal `json:"fees"`
	Interest   decimal.Decimal `json:"interest"`
	Principal  decimal.Decimal `json:"principal"`
	Excess     decimal.Decimal `json:"excess"`
	CloseValue decimal.Decimal `json:"close_value"`
}

func NewPaymentApplied(loanID, payer string, fees, interest, principal, excess, closeValue decimal.Decimal) PaymentApplied {
	return PaymentApplied{
		BaseEvent:  events.NewBaseEvent("lending.loan.payment_applied", loanID, "Loan"),
		Payer:      payer,
		Fees:       fees,
		Interest:   interest,
		Principal:  principal,
		Excess:     excess,
		CloseValue: closeValue,
	}
}

// StatementIssued is raised when a new payment statement is cut. The command
// layer listens for it to notify the borrower.
type StatementIssued struct {
	events.BaseEvent
	Borrower   string          `json:"borrower"`
	BillAmount decimal.Decimal `json:"bill_amount"`
	Minimum    decimal.Decimal `json:"minimum"`
	DueDate    time.Time       `json:"due_date"`
}

func NewStatementIssued(loanID, borrower string, bill, minimum decimal.Decimal, dueDate time.Time) StatementIssued {
	return StatementIssued{
		BaseEvent:  events.NewBaseEvent("lending.loan.statement_issued", loanID, "Loan"),
		Borrower:   borrower,
		BillAmount: bill,
		Minimum:    minimum,
		DueDate:    dueDate,
	}
}

// LateFeeAssessed is raised when a grace period lapses with the minimum
// payment unmet.
type LateFeeAssessed struct {
	events.BaseEvent
	Borrower string          `json:"borrower"`
	Amount   decimal.Decimal `json:"amount"`
}

func NewLateFeeAssessed(loanID, borrower string, amount decimal.Decimal) LateFeeAssessed {
	return LateFeeAssessed{
		BaseEvent: events.NewBaseEvent("lending.loan.late_fee_assessed", loanID, "Loan"),
		Borrower:  borrower,
		Amount:    amount,
	}
}

// LoanClosed is raised when a loan's close value reaches zero.
type LoanClosed struct {
	events.BaseEvent
	Borrower string `json:"borrower"`
}

func NewLoanClosed(loanID, borrower string) LoanClosed {
	return LoanClosed{
		BaseEvent: events.NewBaseEvent("lending.loan.closed", loanID, "Loan"),
		Borrower:  borrower,
	}
}

// LoanSold is raised on a sale-transfer of lender-of-record.
type LoanSold struct {
	events.BaseEvent
	PreviousLender string          `json:"previous_lender"`
	NewLender      string          `json:"new_lender"`
	SalePrice      decimal.Decimal `json:"sale_price"`
}

func NewLoanSold(loanID, previousLender, newLender string, salePrice decimal.Decimal) LoanSold {
	return LoanSold{
		BaseEvent:      events.NewBaseEvent("lending.loan.sold", loanID, "Loan"),
		PreviousLender: previousLender,
		NewLender:      newLender,
		SalePrice:      salePrice,
	}
}

// LoanModified is raised when the borrower changes how the loan is serviced.
type LoanModified struct {
	events.BaseEvent
	Borrower string `json:"borrower"`
	AutoPay  bool   `json:"auto_pay"`
}

func NewLoanModified(loanID, borrower string, autoPay bool) LoanModified {
	return LoanModified{
		BaseEvent: events.NewBaseEvent("lending.loan.modified", loanID, "Loan"),
		Borrower:  borrower,
		AutoPay:   autoPay,
	}
}

// ---------------------------------------------------------------------------
// Credit events
// ---------------------------------------------------------------------------

// CreditScoreUpdated is raised after the scoring engine applies a credit
// event to an entity's score.
type CreditScoreUpdated struct {
	events.BaseEvent
	CreditEvent string          `json:"credit_event"`
	Score       decimal.Decimal `json:"score"`
}

func NewCreditScoreUpdated(entityID, creditEvent string, score decimal.Decimal) CreditScoreUpdated {
	return CreditScoreUpdated{
		BaseEvent:   events.NewBaseEvent("lending.credit.score_updated", entityID, "Entity"),
		CreditEvent: creditEvent,
		Score:       score,
	}
}
