package primitize

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// ValidationError represents failed field validation
type ValidationError struct {
	Type    string
	Field   string
	Key     string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("primitize: %v.%v: value `%v` failed validation: `%v`", e.Type, e.Field, spew.Sprintf("%v", e.Value), e.Message)
}

// IsValidationError returns true if err or any wrapped error is a validation error
func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}
