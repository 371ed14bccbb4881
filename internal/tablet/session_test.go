package tablet

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ftdtab/ftdtab/internal/usbdev"
	"github.com/ftdtab/ftdtab/pkg/ftd"
)

func sessionConfig() Config {
	return Config{
		VendorID:    ftd.VendorID,
		ProductID:   ftd.ProductID,
		Interfaces:  []uint8{1, 2},
		Profile:     ftd.ProfileA(),
		ReadTimeout: time.Millisecond,
		Logger:      testLogger(),
	}
}

// The reference scenario: tablet with interfaces 0,1,2, drivers bound to
// 1 and 2. Claiming [1,2] and handshaking with profile A must issue
// exactly one control transfer with the literal payload to index 2, then
// yield (2, <=64 byte) reports, and teardown must restore both drivers
// but never touch interface 0.
func TestSessionEndToEnd(t *testing.T) {
	m := usbdev.NewMockHandle()
	m.Desc = tabletConfig()
	m.ActiveDrivers[0] = true
	m.ActiveDrivers[1] = true
	m.ActiveDrivers[2] = true

	pen := []byte{0x02, 0xA0, 0x10, 0x20, 0x01}
	m.QueueRead(0x84, pen)

	ctx, cancel := context.WithCancel(context.Background())
	var got []Report
	err := RunWithHandle(ctx, m, sessionConfig(), func(r Report) {
		got = append(got, r)
		cancel()
	})
	if err != nil {
		t.Fatalf("RunWithHandle: %v", err)
	}

	if len(m.Controls) != 1 {
		t.Fatalf("issued %d control transfers, want 1", len(m.Controls))
	}
	c := m.Controls[0]
	if c.Index != 2 || !bytes.Equal(c.Data, []byte{0x02, 0x02, 0xB5, 0x02, 0x00, 0x00, 0x00, 0x00}) {
		t.Fatalf("handshake wire format wrong: index=%d data=% x", c.Index, c.Data)
	}

	if len(got) != 1 || got[0].Interface != 2 || len(got[0].Data) > 64 {
		t.Fatalf("reports = %+v", got)
	}
	if !bytes.Equal(got[0].Data, pen) {
		t.Fatalf("report data = % x", got[0].Data)
	}

	for _, ifc := range []uint8{1, 2} {
		if n := m.CallCount("attach", ifc); n != 1 {
			t.Fatalf("interface %d reattached %d times, want 1", ifc, n)
		}
		if n := m.CallCount("release", ifc); n != 1 {
			t.Fatalf("interface %d released %d times, want 1", ifc, n)
		}
	}
	// Interface 0 was never claimed for polling, so teardown never
	// touches it.
	for _, op := range []string{"detach", "claim", "release", "attach"} {
		if n := m.CallCount(op, 0); n != 0 {
			t.Fatalf("mass-storage interface saw %q", op)
		}
	}
}

func TestSessionFatalReadStillTearsDown(t *testing.T) {
	m := usbdev.NewMockHandle()
	m.Desc = tabletConfig()
	m.ActiveDrivers[1] = true
	m.ActiveDrivers[2] = true
	cause := errors.New("device unplugged")
	m.QueueReadErr(0x83, cause)

	err := RunWithHandle(context.Background(), m, sessionConfig(), func(Report) {
		t.Fatalf("no report expected")
	})
	if !errors.Is(err, cause) {
		t.Fatalf("fatal read error not propagated: %v", err)
	}

	for _, ifc := range []uint8{1, 2} {
		if n := m.CallCount("attach", ifc); n != 1 {
			t.Fatalf("interface %d reattached %d times after fatal error", ifc, n)
		}
	}
}

func TestSessionHandshakeFailureTearsDown(t *testing.T) {
	m := usbdev.NewMockHandle()
	m.Desc = tabletConfig()
	m.ActiveDrivers[1] = true
	m.ControlErr = errors.New("pipe stall")

	err := RunWithHandle(context.Background(), m, sessionConfig(), func(Report) {})
	var herr *HandshakeError
	if !errors.As(err, &herr) {
		t.Fatalf("expected *HandshakeError, got %v", err)
	}
	if n := m.CallCount("attach", 1); n != 1 {
		t.Fatalf("driver not restored after handshake failure")
	}
}

func TestSessionDescriptorFailureAbortsBeforeClaiming(t *testing.T) {
	m := usbdev.NewMockHandle()
	m.DescErr = errors.New("stalled")
	m.ActiveDrivers[1] = true

	err := RunWithHandle(context.Background(), m, sessionConfig(), func(Report) {})
	var derr *DescriptorError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DescriptorError, got %v", err)
	}
	if len(m.Calls) != 0 {
		t.Fatalf("interfaces touched before topology was known: %v", m.Calls)
	}
}

func TestSessionUnknownInterfaceRejected(t *testing.T) {
	m := usbdev.NewMockHandle()
	m.Desc = tabletConfig()

	cfg := sessionConfig()
	cfg.Interfaces = []uint8{1, 7}
	err := RunWithHandle(context.Background(), m, cfg, func(Report) {})
	if err == nil {
		t.Fatalf("undeclared interface accepted")
	}
	if len(m.Calls) != 0 {
		t.Fatalf("interfaces claimed despite invalid watch set: %v", m.Calls)
	}
}

func TestSessionReadSizeOverride(t *testing.T) {
	m := usbdev.NewMockHandle()
	m.Desc = tabletConfig()
	sizes := make(chan int, 1)
	m.ReadHook = func(ep uint8, buf []byte) (int, error) {
		select {
		case sizes <- len(buf):
		default:
		}
		return 0, usbdev.ErrTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	cfg := sessionConfig()
	cfg.ReadSize = 8
	done := make(chan error, 1)
	go func() {
		done <- RunWithHandle(ctx, m, cfg, func(Report) {})
	}()

	select {
	case n := <-sizes:
		if n != 8 {
			t.Fatalf("read buffer = %d bytes, want 8", n)
		}
	case <-time.After(time.Second):
		t.Fatalf("no read attempted")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("RunWithHandle: %v", err)
	}
}
