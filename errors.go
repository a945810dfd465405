package cc1101

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrSelfTest is returned when the chip does not identify as a CC1101.
	ErrSelfTest = errors.New("self test failed")

	// ErrInvalidArgument is returned for out-of-range or malformed parameters.
	// No register is written when it is returned.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedFrequency is returned for carrier frequencies outside the chip's bands.
	ErrUnsupportedFrequency = errors.New("unsupported frequency")

	// ErrUnsupportedModulation is returned for unknown or reserved modulation formats.
	ErrUnsupportedModulation = errors.New("unsupported modulation")

	// ErrPayloadTooLarge is returned when a frame exceeds the configured length limits.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrNotImplemented is returned for infinite packet length mode.
	ErrNotImplemented = errors.New("not implemented")

	// ErrTimeout is returned when the chip does not reach an expected state in time.
	ErrTimeout = errors.New("timeout")
)

// newError annotates one of the sentinel errors above with a formatted detail.
func newError(kind error, format string, args ...interface{}) error {
	return errors.Wrapf(kind, format, args...)
}

// TransportError reports a failed bus transaction.
// Transport errors are never retried by this package.
type TransportError struct {
	Op   string
	Addr byte
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %02X: %v", e.Op, e.Addr, e.Err)
}

// Unwrap returns the underlying bus error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying bus error, for github.com/pkg/errors.
func (e *TransportError) Cause() error {
	return e.Err
}
