// Package usbdev abstracts the USB transport needed to drive the tablet:
// device lookup, configuration descriptors, kernel-driver handover,
// interface claiming, and control/interrupt transfers with timeouts.
// The production backend sits on usbfs; MockHandle serves tests.
package usbdev

import "time"

// EndpointInfo is one endpoint of an interface descriptor.
type EndpointInfo struct {
	// Address is the endpoint address byte; bit 7 set means device-to-host.
	Address uint8
}

// IsInput reports whether the endpoint carries data toward the host.
func (e EndpointInfo) IsInput() bool {
	return e.Address&0x80 != 0
}

// InterfaceDesc is an interface as declared in the active configuration.
type InterfaceDesc struct {
	Number    uint8
	Endpoints []EndpointInfo
}

// ConfigDesc is the subset of the active configuration descriptor the
// tablet session needs.
type ConfigDesc struct {
	Value      uint8
	Interfaces []InterfaceDesc
}

// Handle is an exclusively opened USB device. It is owned by a single
// goroutine; implementations need not be safe for concurrent use.
type Handle interface {
	// ActiveConfig reads the device's active configuration descriptor.
	ActiveConfig() (*ConfigDesc, error)

	KernelDriverActive(iface uint8) (bool, error)
	DetachKernelDriver(iface uint8) error
	AttachKernelDriver(iface uint8) error

	ClaimInterface(iface uint8) error
	ReleaseInterface(iface uint8) error

	// ControlTransfer performs a control request on endpoint zero and
	// returns the number of bytes transferred.
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)

	// InterruptTransfer reads from (or writes to, per the address bit) an
	// interrupt endpoint. It returns ErrTimeout when the deadline expires
	// with no data, which callers treat as "no report yet".
	InterruptTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error)

	Close() error
}
