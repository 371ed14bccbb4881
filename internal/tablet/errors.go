package tablet

import "fmt"

// DescriptorError means the active configuration descriptor could not be
// read; startup cannot proceed without the endpoint topology.
type DescriptorError struct {
	Err error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("read configuration descriptor: %v", e.Err)
}
func (e *DescriptorError) Unwrap() error { return e.Err }

// ClaimError means detaching the kernel driver from, or claiming, a
// specific interface failed. Interfaces claimed earlier in the same call
// stay claimed and are torn down by the ClaimSet.
type ClaimError struct {
	Interface uint8
	Err       error
}

func (e *ClaimError) Error() string {
	return fmt.Sprintf("claim interface %d: %v", e.Interface, e.Err)
}
func (e *ClaimError) Unwrap() error { return e.Err }

// HandshakeError means the mode-switch control transfer failed under a
// fatal policy.
type HandshakeError struct {
	Err error
}

func (e *HandshakeError) Error() string { return fmt.Sprintf("mode-switch handshake: %v", e.Err) }
func (e *HandshakeError) Unwrap() error { return e.Err }

// TransferError is a non-timeout transport failure on an interrupt read.
// It terminates polling on every interface.
type TransferError struct {
	Interface uint8
	Err       error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("interrupt read on interface %d: %v", e.Interface, e.Err)
}
func (e *TransferError) Unwrap() error { return e.Err }
