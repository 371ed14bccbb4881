package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	usbhid "rafaelmartins.com/p/usbhid"

	"github.com/ftdtab/ftdtab/pkg/ftd"
)

// NewHidcapCommand builds the hidraw fallback capture: read input reports
// through the kernel HID layer without detaching its driver. Works
// unprivileged, but only sees the reports the HID driver forwards, and
// cannot guarantee the mode switch took effect.
func NewHidcapCommand() *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "hidcap",
		Short: "Capture reports via hidraw, leaving the kernel driver bound",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := ftd.ProfileByName(profileName)
			if err != nil {
				return err
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			dev, err := usbhid.Get(func(d *usbhid.Device) bool {
				return d.VendorId() == ftd.VendorID && d.ProductId() == ftd.ProductID
			}, true, false)
			if err != nil {
				return fmt.Errorf("open tablet via hidraw: %w", err)
			}
			defer dev.Close()

			log.Info("tablet opened", "path", dev.Path(), "product", dev.Product())

			// Best-effort mode switch through the HID layer. SET_REPORT
			// with wValue 0x03xx is a feature report, 0x02xx an output
			// report; the report ID rides in the low byte and leads the
			// payload.
			reportID := byte(profile.Value & 0xFF)
			switch profile.Value >> 8 {
			case 0x03:
				err = dev.SetFeatureReport(reportID, profile.Payload[1:])
			case 0x02:
				err = dev.SetOutputReport(reportID, profile.Payload[1:])
			}
			if err != nil {
				log.Warn("mode-switch report failed, continuing", "error", err)
			}

			ctx := cmd.Context()
			for ctx.Err() == nil {
				// GetInputReport blocks until the driver forwards a
				// report, so cancellation is observed on the next one.
				id, data, err := dev.GetInputReport()
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("read input report: %w", err)
				}
				fmt.Printf("%s report=0x%02x % x\n",
					time.Now().Format("15:04:05.000"), id, data)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "a", "handshake profile: a or b")
	return cmd
}
