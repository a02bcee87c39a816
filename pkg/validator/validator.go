package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the shared struct validator used outside of gin
// binding (service-level request checks).
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (val *Validator) Validate(obj interface{}) error {
	if err := val.v.Struct(obj); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}
