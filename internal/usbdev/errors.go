package usbdev

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceNotFound means no attached device matched the VID/PID.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrTimeout is the expected outcome of an interrupt read on an idle
	// endpoint. It never indicates a broken device.
	ErrTimeout = errors.New("transfer timed out")
)

// EnumerateError wraps a transport failure while listing devices.
type EnumerateError struct {
	Err error
}

func (e *EnumerateError) Error() string { return fmt.Sprintf("usb enumeration failed: %v", e.Err) }
func (e *EnumerateError) Unwrap() error { return e.Err }

// OpenError wraps a failure to open a matched device for exclusive access.
type OpenError struct {
	Err error
}

func (e *OpenError) Error() string { return fmt.Sprintf("device open failed: %v", e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// IsTimeout reports whether err classifies as the recoverable per-read
// timeout rather than a fatal transport error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
