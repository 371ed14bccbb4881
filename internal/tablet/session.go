// Package tablet implements the capture session for the FTD tablet:
// endpoint topology discovery, kernel-driver handover with guaranteed
// restore, the firmware mode-switch handshake, and the input report
// polling loop.
package tablet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ftdtab/ftdtab/internal/usbdev"
	"github.com/ftdtab/ftdtab/pkg/ftd"
)

// DefaultReadTimeout bounds each interrupt read when the caller does not
// override it. Short enough to notice cancellation promptly, long enough
// that an active pen always has a report ready.
const DefaultReadTimeout = 50 * time.Millisecond

// Config parameterizes a capture session.
type Config struct {
	VendorID  uint16
	ProductID uint16

	// Interfaces to claim and poll, in claim order.
	Interfaces []uint8

	Profile ftd.HandshakeProfile
	Policy  ftd.HandshakePolicy

	// ReadSize overrides the profile's report size when nonzero.
	ReadSize int

	// ReadTimeout bounds each interrupt read; zero means
	// DefaultReadTimeout.
	ReadTimeout time.Duration

	Logger *slog.Logger
}

func (c Config) readSize() int {
	if c.ReadSize > 0 {
		return c.ReadSize
	}
	return c.Profile.ReadSize
}

func (c Config) readTimeout() time.Duration {
	if c.ReadTimeout > 0 {
		return c.ReadTimeout
	}
	return DefaultReadTimeout
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Run opens the device and captures reports until ctx is cancelled or a
// fatal error occurs. See RunWithHandle for the session proper.
func Run(ctx context.Context, cfg Config, onReport func(Report)) error {
	h, err := usbdev.Open(cfg.VendorID, cfg.ProductID)
	if err != nil {
		return err
	}
	defer h.Close()

	return RunWithHandle(ctx, h, cfg, onReport)
}

// RunWithHandle drives an already-open device: read the topology, claim
// the configured interfaces, handshake, then poll until cancellation
// (nil) or a fatal error. Claimed interfaces are released and detached
// kernel drivers reattached on every exit path.
func RunWithHandle(ctx context.Context, h usbdev.Handle, cfg Config, onReport func(Report)) error {
	log := cfg.logger()

	topo, err := ReadTopology(h)
	if err != nil {
		return err
	}

	watch := make([]InterfaceInfo, 0, len(cfg.Interfaces))
	for _, num := range cfg.Interfaces {
		info, ok := topo[num]
		if !ok {
			return fmt.Errorf("interface %d not declared in active configuration", num)
		}
		watch = append(watch, info)
	}

	claims, err := Claim(h, log, cfg.Interfaces)
	defer claims.Close()
	if err != nil {
		return err
	}

	if err := Handshake(h, log, cfg.Profile, cfg.Policy); err != nil {
		return err
	}

	log.Info("polling for input reports",
		"interfaces", cfg.Interfaces,
		"read_size", cfg.readSize(),
		"read_timeout", cfg.readTimeout())

	poller := NewPoller(h, log, watch, cfg.readSize(), cfg.readTimeout())
	return poller.Run(ctx, onReport)
}
