package discounts

import (
	"errors"
	"fmt"
)

// ErrInvalidDiscount is wrapped by every ValidationError.
var ErrInvalidDiscount = errors.New("discount: invalid")

// ValidationError names the offending field of a discount description.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidDiscount, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidDiscount, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidDiscount }

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// at prefixes the field of every ValidationError in err with path.
func at(path string, err error) error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		out := make([]error, 0, len(errs))
		for _, e := range errs {
			out = append(out, at(path, e))
		}
		return errors.Join(out...)
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		field := path
		if ve.Field != "" {
			field = path + "." + ve.Field
		}
		return &ValidationError{Field: field, Reason: ve.Reason}
	}
	return &ValidationError{Field: path, Reason: err.Error()}
}
