package tablet

import (
	"context"
	"log/slog"
	"time"

	"github.com/ftdtab/ftdtab/internal/usbdev"
)

// Report is one input report read from the device.
type Report struct {
	Interface uint8
	Endpoint  uint8
	Data      []byte
}

// Poller round-robins bounded interrupt reads over a set of interfaces.
type Poller struct {
	h           usbdev.Handle
	log         *slog.Logger
	interfaces  []InterfaceInfo
	readSize    int
	readTimeout time.Duration
}

// NewPoller watches the given interfaces' IN endpoints. Each read uses a
// readSize-byte buffer and the per-read timeout, so one full cycle never
// blocks longer than readTimeout times the number of interfaces.
func NewPoller(h usbdev.Handle, log *slog.Logger, interfaces []InterfaceInfo, readSize int, readTimeout time.Duration) *Poller {
	return &Poller{
		h:           h,
		log:         log,
		interfaces:  interfaces,
		readSize:    readSize,
		readTimeout: readTimeout,
	}
}

// Run polls until ctx is cancelled (returns nil) or a read fails with
// something other than a timeout (returns *TransferError). Timeouts are
// the idle steady state and only advance the loop. Each report is handed
// to onReport before the next read starts.
func (p *Poller) Run(ctx context.Context, onReport func(Report)) error {
	buf := make([]byte, p.readSize)

	for {
		if ctx.Err() != nil {
			return nil
		}

		for _, ifc := range p.interfaces {
			// First endpoint with data wins; later ones wait for the
			// next cycle.
			quiet := true
			for _, ep := range ifc.In {
				n, err := p.h.InterruptTransfer(ep, buf, p.readTimeout)
				if usbdev.IsTimeout(err) {
					continue
				}
				if err != nil {
					return &TransferError{Interface: ifc.Number, Err: err}
				}
				onReport(Report{
					Interface: ifc.Number,
					Endpoint:  ep,
					Data:      append([]byte(nil), buf[:n]...),
				})
				quiet = false
				break
			}
			if quiet {
				p.log.Debug("no report", "interface", ifc.Number)
			}
		}
	}
}
