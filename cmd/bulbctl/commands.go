package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"homelight/device/kasa"
	"homelight/logging"
	"homelight/types"
)

var (
	port       uint16
	timeout    time.Duration
	transport  string
	transition time.Duration
	logLevel   string

	brightness int
	hue        int
	saturation int
	kelvin     int

	client *kasa.Client
)

func init() {
	rootCmd.PersistentFlags().Uint16Var(&port, "port", kasa.DefaultPort, "Bulb port, used when the address has none")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", kasa.DefaultTimeout, "How long to wait for the bulb to answer")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", string(types.TransportUDP), "Transport to use (udp, tcp)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	for _, cmd := range []*cobra.Command{onCmd, offCmd, brightnessCmd, colorCmd, temperatureCmd} {
		cmd.Flags().DurationVar(&transition, "transition", 0, "Fade duration, e.g. 500ms")
	}
	for _, cmd := range []*cobra.Command{brightnessCmd, colorCmd, temperatureCmd} {
		cmd.Flags().IntVar(&brightness, "brightness", 100, "Brightness, 0-100")
	}
	colorCmd.Flags().IntVar(&hue, "hue", 0, "Hue, 0-360")
	colorCmd.Flags().IntVar(&saturation, "saturation", 100, "Saturation, 0-100")
	temperatureCmd.Flags().IntVar(&kelvin, "kelvin", 2700, "White colour temperature in kelvin")

	rootCmd.AddCommand(statusCmd, detailsCmd, onCmd, offCmd, brightnessCmd, colorCmd, temperatureCmd)
}

func setUp(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	client = kasa.NewClient(logging.GetLogger(), nil)
	client.Port = port
	client.Timeout = timeout
	switch selected := types.Transport(transport); selected {
	case types.TransportUDP, types.TransportTCP:
		client.Transport = selected
	default:
		return fmt.Errorf("unknown transport %q", transport)
	}
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status <address>",
	Short: "Print the bulb's light state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := client.GetStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, state)
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details <address>",
	Short: "Print the bulb's lamp details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		details, err := client.GetLightDetails(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, details)
	},
}

var onCmd = &cobra.Command{
	Use:   "on <address>",
	Short: "Turn the bulb on",
	Args:  cobra.ExactArgs(1),
	RunE: transitionRunner(func(ctx context.Context, address string) (kasa.Response, error) {
		return client.TurnOn(ctx, address, transition)
	}),
}

var offCmd = &cobra.Command{
	Use:   "off <address>",
	Short: "Turn the bulb off",
	Args:  cobra.ExactArgs(1),
	RunE: transitionRunner(func(ctx context.Context, address string) (kasa.Response, error) {
		return client.TurnOff(ctx, address, transition)
	}),
}

var brightnessCmd = &cobra.Command{
	Use:   "brightness <address>",
	Short: "Turn the bulb on at a brightness",
	Args:  cobra.ExactArgs(1),
	RunE: transitionRunner(func(ctx context.Context, address string) (kasa.Response, error) {
		return client.SetBrightness(ctx, address, brightness, transition)
	}),
}

var colorCmd = &cobra.Command{
	Use:     "color <address>",
	Aliases: []string{"colour"},
	Short:   "Set a hue and saturation",
	Args:    cobra.ExactArgs(1),
	RunE: transitionRunner(func(ctx context.Context, address string) (kasa.Response, error) {
		return client.SetColor(ctx, address, brightness, hue, saturation, transition)
	}),
}

var temperatureCmd = &cobra.Command{
	Use:   "temperature <address>",
	Short: "Set a white colour temperature",
	Args:  cobra.ExactArgs(1),
	RunE: transitionRunner(func(ctx context.Context, address string) (kasa.Response, error) {
		return client.SetColorTemperature(ctx, address, brightness, kelvin, transition)
	}),
}

func transitionRunner(send func(ctx context.Context, address string) (kasa.Response, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		response, err := send(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		logging.GetLogger().Debug("Transition applied", zap.String("addr", args[0]))
		return printJSON(cmd, response)
	}
}

func printJSON(cmd *cobra.Command, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return err
}
