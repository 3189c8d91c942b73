package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedAddress means a line is not a decimal integer.
	ErrMalformedAddress = errors.New("malformed address")

	// ErrAddressOutOfRange means a line holds an integer that does not fit
	// in 32 bits.
	ErrAddressOutOfRange = errors.New("address out of range")
)

// InputError reports a bad line in an address list. Line is 1-based.
type InputError struct {
	Line int
	Text string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
