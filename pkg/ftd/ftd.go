// Package ftd describes the FTD graphics tablet: its USB identity, the
// role of each interface, and the firmware-specific handshake that switches
// the pen interface into report-generating mode.
package ftd

import (
	"fmt"
	"time"
)

// VID/PID for the FTD tablet
const (
	VendorID  uint16 = 0x08F2
	ProductID uint16 = 0x6811
)

// Interface numbers as exposed by the tablet's single configuration.
const (
	InterfaceStorage uint8 = 0 // mass storage, never claimed for polling
	InterfaceButtons uint8 = 1 // express keys
	InterfacePen     uint8 = 2 // pen/tablet, handshake target
)

// DefaultInterfaces returns the interfaces claimed and polled for input
// reports. The mass-storage interface stays with the kernel.
func DefaultInterfaces() []uint8 {
	return []uint8{InterfaceButtons, InterfacePen}
}

// HandshakePolicy decides what a failed handshake transfer means.
type HandshakePolicy int

const (
	// PolicyDefault defers to the profile's own default.
	PolicyDefault HandshakePolicy = iota
	// PolicyFatal treats a failed transfer as a startup error.
	PolicyFatal
	// PolicyWarn logs the failure and proceeds. Some firmware revisions
	// NAK the transfer yet still switch modes.
	PolicyWarn
)

// HandshakeProfile is the full parameter set of the mode-switch control
// transfer for one firmware revision, plus the report size that revision
// produces. Values are firmware constants; do not derive them.
type HandshakeProfile struct {
	Name        string
	RequestType uint8
	Request     uint8
	Value       uint16
	Index       uint16
	Payload     []byte
	Timeout     time.Duration

	// Settle is slept before and after the transfer when nonzero.
	Settle time.Duration

	// ReadSize is the interrupt read buffer size this firmware expects.
	ReadSize int

	DefaultPolicy HandshakePolicy
}

// ProfileA is the handshake for the common firmware revision: a SET_REPORT
// of feature report 2 to the pen interface, strict about failure.
func ProfileA() HandshakeProfile {
	return HandshakeProfile{
		Name:          "a",
		RequestType:   0x21,
		Request:       0x09, // SET_REPORT
		Value:         0x0302,
		Index:         uint16(InterfacePen),
		Payload:       []byte{0x02, 0x02, 0xB5, 0x02, 0x00, 0x00, 0x00, 0x00},
		Timeout:       time.Second,
		ReadSize:      64,
		DefaultPolicy: PolicyFatal,
	}
}

// ProfileB is the handshake for the older revision: output report 2, short
// payload, settle delays around the transfer. This firmware NAKs the
// transfer on some units but still produces reports, so failure only warns.
func ProfileB() HandshakeProfile {
	return HandshakeProfile{
		Name:          "b",
		RequestType:   0x21,
		Request:       0x09,
		Value:         0x0202,
		Index:         uint16(InterfacePen),
		Payload:       []byte{0x02, 0x01},
		Timeout:       time.Second,
		Settle:        500 * time.Millisecond,
		ReadSize:      8,
		DefaultPolicy: PolicyWarn,
	}
}

// ProfileByName resolves a profile from its CLI name.
func ProfileByName(name string) (HandshakeProfile, error) {
	switch name {
	case "a":
		return ProfileA(), nil
	case "b":
		return ProfileB(), nil
	}
	return HandshakeProfile{}, fmt.Errorf("unknown handshake profile %q (want a or b)", name)
}

// Resolve returns the effective policy: the explicit choice, or the
// profile's default when PolicyDefault is passed.
func (p HandshakeProfile) Resolve(policy HandshakePolicy) HandshakePolicy {
	if policy == PolicyDefault {
		return p.DefaultPolicy
	}
	return policy
}
