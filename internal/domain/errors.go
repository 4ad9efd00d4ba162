package domain

import (
	"errors"
	"fmt"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrClientExists      = errors.New("client with this passport number already exists")
	ErrCurrencyNotFound  = errors.New("currency not found")
	ErrCurrencyExists    = errors.New("currency already exists")
	ErrOperationNotFound = errors.New("operation not found")
	ErrReceiptNotFound   = errors.New("receipt not found")
	ErrLimitNotFound     = errors.New("operation limit not found")

	ErrOperationCancelled = errors.New("operation already cancelled")

	// ErrReceiptReferenceTaken signals a receipt token collision. The ledger
	// retries with a fresh token; it never reaches callers.
	ErrReceiptReferenceTaken = errors.New("receipt reference already taken")

	// ErrTxLockTimeout: the per-client serialization lock was not acquired
	// within the bounded wait. Distinct from a limit rejection.
	ErrTxLockTimeout = errors.New("operation processing busy, try again")
)

type LimitKind string

const (
	LimitKindSingle LimitKind = "single"
	LimitKindDaily  LimitKind = "daily"
)

// LimitExceededError is a business-rule rejection, not a system fault. Its
// message is safe to show verbatim to the end user.
type LimitExceededError struct {
	Kind    LimitKind
	Message string
}

func (e *LimitExceededError) Error() string { return e.Message }

func NewLimitExceededError(kind LimitKind, format string, args ...any) *LimitExceededError {
	return &LimitExceededError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
