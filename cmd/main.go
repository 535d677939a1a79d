package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"homelight/config"
	"homelight/device"
	"homelight/device/kasa"
	"homelight/logging"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "homelight-exporter",
	Short: "Export Kasa bulb state as Prometheus metrics",
	Long: `Polls every bulb in the device manifest over the Kasa LAN protocol and
serves the latest light state on /metrics.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVar(&configPath, "config", "config/devices.yaml", "Path to the device manifest")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()
	log := logging.GetLogger()

	appConfig, err := config.ReadAppConfig(configPath)
	if err != nil {
		return err
	}
	log.Info("Using device config", zap.Int("devices", len(appConfig.Devices)), zap.Duration("poll_interval", appConfig.PollInterval))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	client := kasa.NewClient(log, registry)
	client.Timeout = appConfig.Timeout

	var allExited sync.WaitGroup
	for i := range appConfig.Devices {
		dev, err := device.NewDevice(&appConfig.Devices[i], client, registry)
		if err != nil {
			return fmt.Errorf("could not set up device: %w", err)
		}
		allExited.Add(1)
		go pollDevice(ctx, &allExited, dev, appConfig.PollInterval, log.With(zap.String("device", dev.CommonMetricLabels()["dev_full_name"])))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	err = startHttpServer(ctx, mux, appConfig.Listen, log)
	stop()
	allExited.Wait()
	return err
}

func startHttpServer(ctx context.Context, mux *http.ServeMux, listen string, log *zap.Logger) error {
	server := http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadTimeout:       1500 * time.Millisecond,
		ReadHeaderTimeout: 500 * time.Millisecond,
		WriteTimeout:      20 * time.Second,
	}
	go func() {
		<-ctx.Done()
		log.Info("Shutting down http server")
		if err := server.Shutdown(context.Background()); err != nil {
			log.Warn("Could not shut down http server", zap.Error(err))
		}
	}()
	log.Info("Listening", zap.String("addr", listen))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func pollDevice(ctx context.Context, allExited *sync.WaitGroup, dev device.Device, interval time.Duration, log *zap.Logger) {
	log.Info("Starting ticker for polling")
	defer allExited.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Stopped polling")
			return
		case <-ticker.C:
			// spread polls so bulbs sharing an interval aren't hit at once
			select {
			case <-ctx.Done():
				log.Info("Stopped polling")
				return
			case <-time.After(time.Duration(rand.Intn(2000)) * time.Millisecond):
			}
			if err := dev.PollDeviceAndUpdateMetrics(ctx); err != nil {
				log.Warn("Could not query device", zap.Error(err))
				dev.ResetMetricsToRogueValues()
			}
		}
	}
}
