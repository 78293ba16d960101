// api/schemas/errors.go
package schemas

import (
	"errors"
	"fmt"
)

// Typed errors let callers classify failures with errors.Is / errors.As instead of
// matching on message strings. Each typed error matches exactly one sentinel kind.

var (
	// ErrNotFound reports that a lookup requiring exactly one element matched none.
	ErrNotFound = errors.New("element not found")
	// ErrStale reports an operation against an element no longer attached to the page.
	ErrStale = errors.New("stale element reference")
	// ErrMissingField reports a required key absent from an input record.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidArgument reports a malformed argument handed to this layer.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ElementNotFoundError is returned when a selector does not match any element.
type ElementNotFoundError struct {
	Selector string
	Err      error // Underlying backend error, if any.
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element not found matching selector '%s'", e.Selector)
}

func (e *ElementNotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

// NewElementNotFoundError creates a new ElementNotFoundError.
func NewElementNotFoundError(selector string, cause error) *ElementNotFoundError {
	return &ElementNotFoundError{Selector: selector, Err: cause}
}

// StaleElementError is returned when an element handle outlived its node.
type StaleElementError struct {
	Op  string
	Err error
}

func (e *StaleElementError) Error() string {
	if e.Op == "" {
		return ErrStale.Error()
	}
	return fmt.Sprintf("%s: %s", e.Op, ErrStale.Error())
}

func (e *StaleElementError) Is(target error) bool { return target == ErrStale }

func (e *StaleElementError) Unwrap() error { return e.Err }

// NewStaleElementError creates a new StaleElementError for the named operation.
func NewStaleElementError(op string, cause error) *StaleElementError {
	return &StaleElementError{Op: op, Err: cause}
}

// MissingFieldError names the record kind and the key that was not present.
type MissingFieldError struct {
	Record string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s record: missing required field %q", e.Record, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// InvalidArgumentError carries a human readable reason.
type InvalidArgumentError struct {
	Reason string
	Err    error
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

func (e *InvalidArgumentError) Unwrap() error { return e.Err }

// NewInvalidArgumentError formats a reason into an InvalidArgumentError.
func NewInvalidArgumentError(format string, args ...interface{}) *InvalidArgumentError {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}
