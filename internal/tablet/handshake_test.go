package tablet

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/ftdtab/ftdtab/internal/usbdev"
	"github.com/ftdtab/ftdtab/pkg/ftd"
)

func TestHandshakeProfileAWireFormat(t *testing.T) {
	m := usbdev.NewMockHandle()

	if err := Handshake(m, testLogger(), ftd.ProfileA(), ftd.PolicyDefault); err != nil {
		t.Fatalf("Handshake: %v", err)
	}

	if len(m.Controls) != 1 {
		t.Fatalf("issued %d control transfers, want exactly 1", len(m.Controls))
	}
	c := m.Controls[0]
	if c.RequestType != 0x21 || c.Request != 0x09 {
		t.Fatalf("request fields = %#x %#x", c.RequestType, c.Request)
	}
	if c.Value != 0x0302 || c.Index != 2 {
		t.Fatalf("value/index = %#x %d", c.Value, c.Index)
	}
	if !bytes.Equal(c.Data, []byte{0x02, 0x02, 0xB5, 0x02, 0x00, 0x00, 0x00, 0x00}) {
		t.Fatalf("payload = % x", c.Data)
	}
	if c.Timeout != time.Second {
		t.Fatalf("timeout = %v", c.Timeout)
	}
}

func TestHandshakeFatalByDefaultForProfileA(t *testing.T) {
	m := usbdev.NewMockHandle()
	cause := errors.New("pipe stall")
	m.ControlErr = cause

	err := Handshake(m, testLogger(), ftd.ProfileA(), ftd.PolicyDefault)
	var herr *HandshakeError
	if !errors.As(err, &herr) {
		t.Fatalf("expected *HandshakeError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not wrapped: %v", err)
	}
}

func TestHandshakeWarnPolicyContinues(t *testing.T) {
	m := usbdev.NewMockHandle()
	m.ControlErr = errors.New("pipe stall")

	// Profile B's firmware NAKs the transfer yet still switches mode.
	p := ftd.ProfileB()
	p.Settle = 0 // keep the test fast
	if err := Handshake(m, testLogger(), p, ftd.PolicyDefault); err != nil {
		t.Fatalf("warn policy propagated error: %v", err)
	}
	if len(m.Controls) != 1 {
		t.Fatalf("transfer not attempted")
	}
}

func TestHandshakeExplicitPolicyOverridesProfile(t *testing.T) {
	m := usbdev.NewMockHandle()
	m.ControlErr = errors.New("pipe stall")

	p := ftd.ProfileB()
	p.Settle = 0
	if err := Handshake(m, testLogger(), p, ftd.PolicyFatal); err == nil {
		t.Fatalf("explicit fatal policy ignored")
	}

	m2 := usbdev.NewMockHandle()
	m2.ControlErr = errors.New("pipe stall")
	if err := Handshake(m2, testLogger(), ftd.ProfileA(), ftd.PolicyWarn); err != nil {
		t.Fatalf("explicit warn policy ignored: %v", err)
	}
}
