package port

import (
	"errors"
	"fmt"
)

// Domain rejections: the request itself is invalid and retrying the same
// request will fail the same way. These map to client-error status codes.
var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrOfferNotFound     = errors.New("offer not found")
	ErrEntityNotFound    = errors.New("entity not found")
	ErrScoreNotFound     = errors.New("credit score not found")
	ErrStatementNotFound = errors.New("statement not found")
	ErrLoanClosed        = errors.New("loan is closed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrVersionConflict   = errors.New("concurrent modification, retry")
)

// ConfigurationError means the deployment cannot run as configured. It is
// fatal at startup and never retried.
type ConfigurationError struct {
	Reason string
}

func NewConfigurationError(reason string) *ConfigurationError {
	return &ConfigurationError{Reason: reason}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// PersistenceError wraps a storage failure. The operation may succeed on
// retry; callers log and back off rather than abort.
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
