package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// TermsRequest carries the financial parameters of an offer. Durations are
// expressed in seconds; a zero term means the loan is open-ended.
type TermsRequest struct {
	Principal            decimal.Decimal `json:"principal"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	TermSeconds          int64           `json:"term_seconds"`
	CompoundingSeconds   int64           `json:"compounding_seconds"`
	GraceSeconds         int64           `json:"grace_seconds"`
	PaymentTimeSeconds   int64           `json:"payment_time_seconds"`
	PaymentFreqSeconds   int64           `json:"payment_freq_seconds"`
	LateFee              decimal.Decimal `json:"late_fee"`
	MinPaymentValue      decimal.Decimal `json:"min_payment_value"`
	MinPaymentPercentage bool            `json:"min_payment_percentage"`
	ServiceFee           decimal.Decimal `json:"service_fee"`
	ServiceFeeSeconds    int64           `json:"service_fee_seconds"`
	LoanType             string          `json:"loan_type"`
}

// ExtendOfferRequest carries a lender's proposal of terms to a borrower.
type ExtendOfferRequest struct {
	Lender     string       `json:"lender"`
	Borrower   string       `json:"borrower"`
	Terms      TermsRequest `json:"terms"`
	AutoPay    bool         `json:"auto_pay"`
	TTLSeconds int64        `json:"ttl_seconds,omitempty"`
}

// AcceptOfferRequest is a borrower's acceptance of an open offer.
type AcceptOfferRequest struct {
	OfferID  string `json:"offer_id"`
	Borrower string `json:"borrower"`
}

// RevokeOfferRequest withdraws an open offer.
type RevokeOfferRequest struct {
	OfferID string `json:"offer_id"`
	Lender  string `json:"lender"`
}

// MakePaymentRequest carries a voluntary payment against a loan.
type MakePaymentRequest struct {
	LoanID string          `json:"loan_id"`
	Payer  string          `json:"payer"`
	Amount decimal.Decimal `json:"amount"`
}

// UpdateLoanRequest asks for one loan to be brought current.
type UpdateLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// ConfigureAutoPayRequest changes automatic statement payment on a loan.
type ConfigureAutoPayRequest struct {
	LoanID   string `json:"loan_id"`
	Borrower string `json:"borrower"`
	AutoPay  bool   `json:"auto_pay"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// GetOfferRequest identifies an offer to retrieve.
type GetOfferRequest struct {
	OfferID string `json:"offer_id"`
}

// GetStatementRequest identifies a loan whose latest statement to retrieve.
type GetStatementRequest struct {
	LoanID string `json:"loan_id"`
}

// GetCreditScoreRequest identifies an entity whose score to retrieve.
type GetCreditScoreRequest struct {
	EntityID string `json:"entity_id"`
}

// RecordBankruptcyRequest declares an entity bankrupt.
type RecordBankruptcyRequest struct {
	EntityID string `json:"entity_id"`
}

// SellLoanRequest transfers lender-of-record in exchange for a sale price.
type SellLoanRequest struct {
	LoanID string          `json:"loan_id"`
	Seller string          `json:"seller"`
	Buyer  string          `json:"buyer"`
	Price  decimal.Decimal `json:"price"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// OfferResponse is the external representation of an offer.
type OfferResponse struct {
	ID        string       `json:"id"`
	Lender    string       `json:"lender"`
	Borrower  string       `json:"borrower"`
	Terms     TermsRequest `json:"terms"`
	AutoPay   bool         `json:"auto_pay"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID              string          `json:"id"`
	Lender          string          `json:"lender"`
	Borrower        string          `json:"borrower"`
	LoanType        string          `json:"loan_type"`
	Balance         decimal.Decimal `json:"balance"`
	InterestBalance decimal.Decimal `json:"interest_balance"`
	FeeBalance      decimal.Decimal `json:"fee_balance"`
	CloseValue      decimal.Decimal `json:"close_value"`
	Open            bool            `json:"open"`
	AutoPay         bool            `json:"auto_pay"`
	StartTime       time.Time       `json:"start_time"`
	LastUpdate      time.Time       `json:"last_update"`
	Maturity        time.Time       `json:"maturity,omitzero"`
}

// PaymentResponse reports how a payment was allocated.
type PaymentResponse struct {
	LoanID     string          `json:"loan_id"`
	Fees       decimal.Decimal `json:"fees"`
	Interest   decimal.Decimal `json:"interest"`
	Principal  decimal.Decimal `json:"principal"`
	Excess     decimal.Decimal `json:"excess"`
	CloseValue decimal.Decimal `json:"close_value"`
	Open       bool            `json:"open"`
}

// StatementResponse is the external representation of a billing statement.
type StatementResponse struct {
	ID         string          `json:"id"`
	LoanID     string          `json:"loan_id"`
	Bill       decimal.Decimal `json:"bill"`
	Minimum    decimal.Decimal `json:"minimum"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	IssuedAt   time.Time       `json:"issued_at"`
	DueAt      time.Time       `json:"due_at"`
	Settled    bool            `json:"settled"`
}

// CreditScoreResponse is the published credit score for an entity.
type CreditScoreResponse struct {
	EntityID  string          `json:"entity_id"`
	Score     decimal.Decimal `json:"score"`
	RangeMin  decimal.Decimal `json:"range_min"`
	RangeMax  decimal.Decimal `json:"range_max"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SweepResponse reports the outcome of a maintenance sweep.
type SweepResponse struct {
	LoansSwept    int `json:"loans_swept"`
	OffersExpired int `json:"offers_expired"`
}
