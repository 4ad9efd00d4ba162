package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OperationType string

const (
	// ClientSellsToExchange: the client hands over foreign currency and
	// receives RUB. Input amount is in currency units, buy rate applies.
	ClientSellsToExchange OperationType = "CLIENT_SELLS_TO_EXCHANGE"

	// ClientBuysFromExchange: the client hands over RUB and receives foreign
	// currency. Input amount is in RUB, sell rate applies.
	ClientBuysFromExchange OperationType = "CLIENT_BUYS_FROM_EXCHANGE"
)

func (t OperationType) Valid() bool {
	return t == ClientSellsToExchange || t == ClientBuysFromExchange
}

// Operation is immutable once persisted; cancellation only sets CancelledAt.
type Operation struct {
	ID               int64
	ClientID         int64
	CurrencyID       int64
	OperationType    OperationType
	AmountCurrency   decimal.Decimal
	AmountRub        decimal.Decimal
	EffectiveRate    decimal.Decimal
	ReceiptReference string
	CancelledAt      *time.Time
	CreatedAt        time.Time
}

func (o Operation) Cancelled() bool { return o.CancelledAt != nil }

// OperationRecord is an operation joined with the client and currency fields
// needed for listings and receipts.
type OperationRecord struct {
	Operation
	ClientName           string
	ClientPassportNumber string
	CurrencyCode         string
	CurrencyName         string
}
