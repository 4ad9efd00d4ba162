package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Limit names. Limits are global but stored keyed by name so per-currency or
// per-client scoping can be added without a schema redesign.
const (
	LimitSingleOperationAmount = "single_operation_amount"
	LimitDailyCurrencyVolume   = "daily_currency_volume"
)

// OperationLimit thresholds are denominated in foreign-currency units
// regardless of operation direction.
type OperationLimit struct {
	Name      string
	Threshold decimal.Decimal
	UpdatedAt time.Time
}
