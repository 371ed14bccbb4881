package app

import (
	"fmt"

	"github.com/karalabe/usb"
	"github.com/spf13/cobra"

	"github.com/ftdtab/ftdtab/pkg/ftd"
)

// NewListCommand builds a diagnostic command that dumps how the OS
// currently exposes the bus, in both its raw and HID views. Handy for
// checking whether the tablet is attached and which hidraw nodes the
// kernel driver created before a run detaches it.
func NewListCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attached USB devices (raw and HID views)",
		RunE: func(cmd *cobra.Command, args []string) error {
			vid, pid := ftd.VendorID, ftd.ProductID
			if all {
				vid, pid = 0, 0
			}

			raws, err := usb.EnumerateRaw(vid, pid)
			if err != nil {
				return fmt.Errorf("enumerate raw devices: %w", err)
			}
			fmt.Printf("raw devices: %d\n", len(raws))
			for _, info := range raws {
				printInfo(info)
			}

			hids, err := usb.EnumerateHid(vid, pid)
			if err != nil {
				return fmt.Errorf("enumerate hid devices: %w", err)
			}
			fmt.Printf("hid devices: %d\n", len(hids))
			for _, info := range hids {
				printInfo(info)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every device, not just the tablet")
	return cmd
}

func printInfo(info usb.DeviceInfo) {
	fmt.Printf("  %04x:%04x if=%d path=%s", info.VendorID, info.ProductID, info.Interface, info.Path)
	if info.Product != "" {
		fmt.Printf(" product=%q", info.Product)
	}
	if info.Manufacturer != "" {
		fmt.Printf(" manufacturer=%q", info.Manufacturer)
	}
	fmt.Println()
}
