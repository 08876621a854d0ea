package hwc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDevice is returned for a display index that is out of range or
	// not connected, and when primary display information is unavailable.
	ErrNoDevice = errors.New("hwc: no such device")

	// ErrInvalidArgument is returned when a computed source region is
	// degenerate or a caller passes malformed geometry.
	ErrInvalidArgument = errors.New("hwc: invalid argument")

	// ErrInvalidLimits is returned when a PlatformLimits table cannot be used.
	ErrInvalidLimits = errors.New("hwc: invalid platform limits")
)

// DisplayError annotates an error with the display index it concerns.
type DisplayError struct {
	Index int
	Err   error
}

func (e *DisplayError) Error() string {
	return fmt.Sprintf("hwc: display %d: %v", e.Index, e.Err)
}

func (e *DisplayError) Unwrap() error { return e.Err }
