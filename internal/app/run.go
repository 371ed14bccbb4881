// Package app holds the ftdtab CLI commands.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ftdtab/ftdtab/internal/tablet"
	"github.com/ftdtab/ftdtab/internal/usbdev"
	"github.com/ftdtab/ftdtab/pkg/ftd"
)

// NewRunCommand builds the capture command: claim the tablet's input
// interfaces, handshake, and print raw reports until interrupted.
func NewRunCommand() *cobra.Command {
	var (
		profileName string
		policyName  string
		readSize    int
		readTimeout time.Duration
		interfaces  []uint
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Capture raw input reports from the tablet",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := ftd.ProfileByName(profileName)
			if err != nil {
				return err
			}
			policy, err := parsePolicy(policyName)
			if err != nil {
				return err
			}

			claim := make([]uint8, 0, len(interfaces))
			for _, n := range interfaces {
				if n > 0xFF {
					return fmt.Errorf("interface number %d out of range", n)
				}
				claim = append(claim, uint8(n))
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			counts := make(map[uint8]int)
			cfg := tablet.Config{
				VendorID:    ftd.VendorID,
				ProductID:   ftd.ProductID,
				Interfaces:  claim,
				Profile:     profile,
				Policy:      policy,
				ReadSize:    readSize,
				ReadTimeout: readTimeout,
				Logger:      log,
			}

			err = tablet.Run(cmd.Context(), cfg, func(r tablet.Report) {
				counts[r.Interface]++
				fmt.Printf("%s if=%d ep=0x%02x % x\n",
					time.Now().Format("15:04:05.000"), r.Interface, r.Endpoint, r.Data)
			})

			for ifc, n := range counts {
				log.Info("session summary", "interface", ifc, "reports", n)
			}
			if errors.Is(err, usbdev.ErrDeviceNotFound) {
				return fmt.Errorf("tablet not found (%04x:%04x)", ftd.VendorID, ftd.ProductID)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "a", "handshake profile: a or b")
	cmd.Flags().StringVar(&policyName, "handshake-policy", "default", "on handshake failure: default, fatal, or warn")
	cmd.Flags().IntVar(&readSize, "read-size", 0, "interrupt read buffer size (0 = profile default)")
	cmd.Flags().DurationVar(&readTimeout, "timeout", tablet.DefaultReadTimeout, "per-read interrupt timeout")
	defaults := make([]uint, 0, 2)
	for _, n := range ftd.DefaultInterfaces() {
		defaults = append(defaults, uint(n))
	}
	cmd.Flags().UintSliceVar(&interfaces, "interfaces", defaults, "interfaces to claim and poll, in order")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-cycle poll outcomes")

	return cmd
}

func parsePolicy(name string) (ftd.HandshakePolicy, error) {
	switch name {
	case "default":
		return ftd.PolicyDefault, nil
	case "fatal":
		return ftd.PolicyFatal, nil
	case "warn":
		return ftd.PolicyWarn, nil
	}
	return 0, fmt.Errorf("unknown handshake policy %q (want default, fatal, or warn)", name)
}
