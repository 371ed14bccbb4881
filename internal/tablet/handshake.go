package tablet

import (
	"log/slog"
	"time"

	"github.com/ftdtab/ftdtab/internal/usbdev"
	"github.com/ftdtab/ftdtab/pkg/ftd"
)

// Handshake issues the profile's mode-switch control transfer. Profiles
// with a settle delay get it slept before and after the transfer, failure
// included, since that firmware needs the quiet time either way. Under a
// warn policy a failed transfer is logged and nil is returned.
func Handshake(h usbdev.Handle, log *slog.Logger, profile ftd.HandshakeProfile, policy ftd.HandshakePolicy) error {
	if profile.Settle > 0 {
		time.Sleep(profile.Settle)
	}

	// The transfer buffer is handed to the transport; keep the profile's
	// payload pristine.
	payload := append([]byte(nil), profile.Payload...)
	_, err := h.ControlTransfer(profile.RequestType, profile.Request, profile.Value, profile.Index, payload, profile.Timeout)

	if profile.Settle > 0 {
		time.Sleep(profile.Settle)
	}

	if err == nil {
		log.Info("handshake sent", "profile", profile.Name)
		return nil
	}

	if profile.Resolve(policy) == ftd.PolicyWarn {
		log.Warn("handshake transfer failed, continuing", "profile", profile.Name, "error", err)
		return nil
	}
	return &HandshakeError{Err: err}
}
