package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/guildbank/lending/internal/domain/event"
)

// OfferStatus tracks an offer through its short life.
type OfferStatus string

const (
	OfferStatusOpen     OfferStatus = "OPEN"
	OfferStatusAccepted OfferStatus = "ACCEPTED"
	OfferStatusExpired  OfferStatus = "EXPIRED"
	OfferStatusRevoked  OfferStatus = "REVOKED"
)

// Offer is a lender's standing proposal of terms to a specific borrower. An
// offer that is not accepted before its deadline is expired by the sweep.
type Offer struct {
	id           string
	lender       string
	borrower     string
	terms        Terms
	autoPay      bool
	status       OfferStatus
	createdAt    time.Time
	expiresAt    time.Time
	version      int
	domainEvents []event.DomainEvent
}

// NewOffer extends an offer from lender to borrower with a time-to-live.
func NewOffer(lender, borrower string, terms Terms, autoPay bool, ttl time.Duration, now time.Time) (Offer, error) {
	if lender == "" || borrower == "" {
		return Offer{}, errors.New("lender and borrower are required")
	}
	if lender == borrower {
		return Offer{}, errors.New("cannot extend an offer to yourself")
	}
	if ttl <= 0 {
		return Offer{}, errors.New("offer time-to-live must be positive")
	}

	offer := Offer{
		id:        uuid.New().String(),
		lender:    lender,
		borrower:  borrower,
		terms:     terms,
		autoPay:   autoPay,
		status:    OfferStatusOpen,
		createdAt: now,
		expiresAt: now.Add(ttl),
		version:   1,
	}
	offer.domainEvents = append(offer.domainEvents, event.NewOfferExtended(
		offer.id, lender, borrower, terms.Principal(), offer.expiresAt,
	))
	return offer, nil
}

// ReconstructOffer rebuilds an Offer from persistence.
func ReconstructOffer(id, lender, borrower string, terms Terms, autoPay bool, status OfferStatus, createdAt, expiresAt time.Time, version int) Offer {
	return Offer{
		id:        id,
		lender:    lender,
		borrower:  borrower,
		terms:     terms,
		autoPay:   autoPay,
		status:    status,
		createdAt: createdAt,
		expiresAt: expiresAt,
		version:   version,
	}
}

// Accept marks the offer accepted and returns the terms snapshot the new loan
// must be created from. Only the named borrower may accept, and only while
// the offer is open and unexpired.
func (o Offer) Accept(borrower string, now time.Time) (Offer, Terms, error) {
	if o.status != OfferStatusOpen {
		return o, Terms{}, errors.New("offer is no longer open")
	}
	if borrower != o.borrower {
		return o, Terms{}, errors.New("offer was extended to a different borrower")
	}
	if now.After(o.expiresAt) {
		return o, Terms{}, errors.New("offer has expired")
	}

	next := o
	next.status = OfferStatusAccepted
	next.domainEvents = copyEvents(o.domainEvents)
	return next, o.terms.Snapshot(), nil
}

// Expire retires an open offer that passed its deadline.
func (o Offer) Expire(now time.Time) (Offer, error) {
	if o.status != OfferStatusOpen {
		return o, errors.New("only open offers can expire")
	}
	if now.Before(o.expiresAt) {
		return o, errors.New("offer has not reached its deadline")
	}

	next := o
	next.status = OfferStatusExpired
	next.domainEvents = copyEvents(o.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewOfferExpired(o.id, o.lender))
	return next, nil
}

// Revoke lets the lender withdraw an open offer before acceptance.
func (o Offer) Revoke(lender string) (Offer, error) {
	if o.status != OfferStatusOpen {
		return o, errors.New("only open offers can be revoked")
	}
	if lender != o.lender {
		return o, errors.New("only the offering lender can revoke")
	}

	next := o
	next.status = OfferStatusRevoked
	next.domainEvents = copyEvents(o.domainEvents)
	return next, nil
}

func (o Offer) ID() string                        { return o.id }
func (o Offer) Lender() string                    { return o.lender }
func (o Offer) Borrower() string                  { return o.borrower }
func (o Offer) Terms() Terms                      { return o.terms }
func (o Offer) AutoPay() bool                     { return o.autoPay }
func (o Offer) Status() OfferStatus               { return o.status }
func (o Offer) CreatedAt() time.Time              { return o.createdAt }
func (o Offer) ExpiresAt() time.Time              { return o.expiresAt }
func (o Offer) Version() int                      { return o.version }
func (o Offer) DomainEvents() []event.DomainEvent { return o.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (o Offer) ClearEvents() Offer {
	next := o
	next.domainEvents = nil
	return next
}
