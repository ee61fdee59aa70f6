package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validator provides a fluent interface for validating configuration
// values. It collects all validation errors rather than failing on the
// first one.
type Validator struct {
	name   string
	errors []error
}

// NewValidator creates a validator for the named config struct.
func NewValidator(name string) *Validator {
	return &Validator{name: name, errors: make([]error, 0)}
}

// Required validates that a string field is not empty.
func (v *Validator) Required(field, value string) *Validator {
	if value == "" {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: required field is empty", v.name, field))
	}
	return v
}

// MinInt validates that an int field is at least the minimum value.
func (v *Validator) MinInt(field string, value, min int) *Validator {
	if value < min {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: value %d is below minimum %d", v.name, field, value, min))
	}
	return v
}

// IntRange validates that an int field lies within [min, max].
func (v *Validator) IntRange(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: value %d is outside [%d, %d]", v.name, field, value, min, max))
	}
	return v
}

// PositiveFloat validates that a float field is strictly positive.
func (v *Validator) PositiveFloat(field string, value float64) *Validator {
	if value <= 0 {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: value %g must be positive", v.name, field, value))
	}
	return v
}

// Result returns all collected errors joined, or nil.
func (v *Validator) Result() error {
	if len(v.errors) == 0 {
		return nil
	}
	msgs := make([]string, len(v.errors))
	for i, err := range v.errors {
		msgs[i] = err.Error()
	}
	return errors.New(strings.Join(msgs, "; "))
}
