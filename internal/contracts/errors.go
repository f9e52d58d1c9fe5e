package contracts

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller errors: malformed ranges, missing fields,
// non-positive counts. The API maps it to 400, never 500.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes which constraint a caller violated
type InputError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewInputError builds an InputError for field
func NewInputError(field, format string, args ...interface{}) error {
	return &InputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrInvalidInput) hold for every InputError
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// AsInputError unwraps err to an *InputError if there is one in the chain
func AsInputError(err error) (*InputError, bool) {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
