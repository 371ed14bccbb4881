package tablet

import (
	"log/slog"

	"github.com/ftdtab/ftdtab/internal/usbdev"
)

type claimedInterface struct {
	number    uint8
	hadDriver bool
	claimed   bool
}

// ClaimSet tracks which interfaces were claimed and which had a kernel
// driver bound at claim time. Close restores both, exactly once.
type ClaimSet struct {
	h      usbdev.Handle
	log    *slog.Logger
	record []claimedInterface
	closed bool
}

// Claim takes the listed interfaces away from the kernel in caller order:
// for each, it detaches any bound driver, then claims the interface. On
// the first failure it stops and returns a *ClaimError; interfaces handled
// earlier keep their records, so the returned ClaimSet (never nil) still
// tears them down. Callers must defer Close before checking the error.
func Claim(h usbdev.Handle, log *slog.Logger, interfaces []uint8) (*ClaimSet, error) {
	cs := &ClaimSet{h: h, log: log}

	for _, num := range interfaces {
		active, err := h.KernelDriverActive(num)
		if err != nil {
			return cs, &ClaimError{Interface: num, Err: err}
		}
		if active {
			if err := h.DetachKernelDriver(num); err != nil {
				return cs, &ClaimError{Interface: num, Err: err}
			}
		}

		// Recorded before the claim attempt: a detached driver must be
		// reattached at teardown even if the claim itself fails.
		cs.record = append(cs.record, claimedInterface{number: num, hadDriver: active})

		if err := h.ClaimInterface(num); err != nil {
			return cs, &ClaimError{Interface: num, Err: err}
		}
		cs.record[len(cs.record)-1].claimed = true

		log.Info("interface claimed", "interface", num, "had_driver", active)
	}

	return cs, nil
}

// Close releases every claimed interface and reattaches every driver that
// was active at claim time, in reverse claim order. Failures are logged
// and swallowed: the process is exiting and cannot recover bus state
// further. Close is idempotent; only the first call acts.
func (c *ClaimSet) Close() {
	if c.closed {
		return
	}
	c.closed = true

	for i := len(c.record) - 1; i >= 0; i-- {
		ent := c.record[i]
		if ent.claimed {
			if err := c.h.ReleaseInterface(ent.number); err != nil {
				c.log.Warn("release interface failed", "interface", ent.number, "error", err)
			}
		}
		if ent.hadDriver {
			if err := c.h.AttachKernelDriver(ent.number); err != nil {
				c.log.Warn("kernel driver reattach failed", "interface", ent.number, "error", err)
			}
		}
	}
}
