package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateScale and AmountScale are the fixed-point scales used everywhere:
// rates carry 8 fractional digits, money amounts 4.
const (
	RateScale   = 8
	AmountScale = 4
)

// BaseCurrencyCode is the settlement currency. All operations settle in it,
// so it is never a tradable currency itself.
const BaseCurrencyCode = "RUB"

type Currency struct {
	ID               int64
	Code             string
	Name             string
	BuyRate          decimal.Decimal // RUB per unit, exchange buys from client
	SellRate         decimal.Decimal // RUB per unit, exchange sells to client
	LastRateUpdateAt time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
