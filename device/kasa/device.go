package kasa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"homelight/types"
)

// Device is one configured bulb and the gauges it reports into.
type Device struct {
	deviceConfig *types.DeviceConfig
	client       *Client
	metrics      *prometheusMetrics
}

type bulbStatus struct {
	state          *LightState
	details        *LightDetails
	scrapeDuration time.Duration
}

func NewDevice(config *types.DeviceConfig, client *Client, registry prometheus.Registerer) (*Device, error) {
	if !isLight(config) {
		return nil, errors.New("device " + config.Name + " is not a Kasa bulb")
	}
	if client == nil {
		return nil, errors.New("device " + config.Name + " needs a client")
	}
	bound := *client
	if config.Port != 0 {
		bound.Port = config.Port
	}
	if config.Transport != "" {
		bound.Transport = config.Transport
	}
	if config.Timeout > 0 {
		bound.Timeout = config.Timeout
	}
	return &Device{
		deviceConfig: config,
		client:       &bound,
		metrics:      registerMetrics(registry, config),
	}, nil
}

func (dev *Device) Client() *Client {
	return dev.client
}

func (dev *Device) Address() string {
	return dev.deviceConfig.Ip
}

func (dev *Device) PollDeviceAndUpdateMetrics(ctx context.Context) error {
	var startTime = time.Now()
	state, err := dev.client.GetStatus(ctx, dev.deviceConfig.Ip)
	if err != nil {
		return fmt.Errorf("could not poll light state for %s (%s): %w", dev.deviceConfig.Ip, dev.deviceConfig.Name, err)
	}
	var status = bulbStatus{state: state}
	if hasLightDetails(dev.deviceConfig) {
		if status.details, err = dev.client.GetLightDetails(ctx, dev.deviceConfig.Ip); err != nil {
			return fmt.Errorf("could not poll light details for %s (%s): %w", dev.deviceConfig.Ip, dev.deviceConfig.Name, err)
		}
	}
	status.scrapeDuration = time.Since(startTime)
	dev.metrics.updateMetrics(&status)
	return nil
}

func (dev *Device) ResetMetricsToRogueValues() {
	dev.metrics.resetToRogueValues()
}

func (dev *Device) CommonMetricLabels() map[string]string {
	return dev.metrics.commonLabels
}
