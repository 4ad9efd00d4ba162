package client

import "errors"

var (
	ErrPassportRequired = errors.New("passport number is required")
	ErrFullNameRequired = errors.New("full name is required")
)

type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

// Validate checks the fields of a create request. The phone number is
// optional and not validated beyond being passed through as-is.
func (v *Validator) Validate(passportNumber, fullName string) error {
	if passportNumber == "" {
		return ErrPassportRequired
	}
	if fullName == "" {
		return ErrFullNameRequired
	}
	return nil
}
