package simulation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFrameCount means the number of frames is outside [1, 256].
	ErrInvalidFrameCount = errors.New("number of frames must be in [1, 256]")

	// ErrInvalidTLBSize means the TLB would have no entries.
	ErrInvalidTLBSize = errors.New("number of TLB entries must be positive")

	// ErrUnknownFormat means the output format is not supported.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrInvalidPort means the monitoring port is not a TCP port.
	ErrInvalidPort = errors.New("port must be in [0, 65535]")

	// ErrInvalidValue means a setting could not be parsed.
	ErrInvalidValue = errors.New("invalid value")

	// ErrAlreadyRun means Run was called more than once.
	ErrAlreadyRun = errors.New("simulation has already run")
)

// ConfigError reports a setting that cannot be used.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
