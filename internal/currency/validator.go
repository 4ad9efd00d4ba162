package currency

import (
	"errors"

	"exchpoint/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrCodeRequired    = errors.New("currency code is required")
	ErrCodeInvalid     = errors.New("currency code must be 3 latin letters")
	ErrNameRequired    = errors.New("currency name is required")
	ErrBaseNotTradable = errors.New("the base settlement currency cannot be registered as tradable")
	ErrBuyRateInvalid  = errors.New("buy rate must be a positive decimal")
	ErrSellRateInvalid = errors.New("sell rate must be a positive decimal")
)

type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

// ValidateCreate checks a create request. Codes are expected uppercased by
// the caller.
func (v *Validator) ValidateCreate(code, name string, buyRate, sellRate decimal.Decimal) error {
	if err := v.ValidateCode(code); err != nil {
		return err
	}
	if name == "" {
		return ErrNameRequired
	}
	return v.ValidateRates(buyRate, sellRate)
}

func (v *Validator) ValidateCode(code string) error {
	if code == "" {
		return ErrCodeRequired
	}
	if len(code) != 3 {
		return ErrCodeInvalid
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ErrCodeInvalid
		}
	}
	if code == domain.BaseCurrencyCode {
		return ErrBaseNotTradable
	}
	return nil
}

func (v *Validator) ValidateRates(buyRate, sellRate decimal.Decimal) error {
	if !buyRate.IsPositive() {
		return ErrBuyRateInvalid
	}
	if !sellRate.IsPositive() {
		return ErrSellRateInvalid
	}
	return nil
}
