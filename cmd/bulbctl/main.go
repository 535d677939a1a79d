// Bulbctl sends single commands to a Kasa smart bulb on the local network.
//
// Usage:
//
//	bulbctl status 192.168.1.50
//	bulbctl color 192.168.1.50 --brightness 80 --hue 240 --saturation 100
//
// Set HOMELIGHT_LOG_LEVEL=debug or pass --log-level debug to trace the
// encrypted traffic.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bulbctl",
	Short: "Control Kasa smart bulbs over the LAN protocol",
	Long: `Sends get-state and transition commands to Kasa smart bulbs.

Commands go over UDP by default. Use --transport tcp to send them over a
TCP connection instead.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setUp,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
