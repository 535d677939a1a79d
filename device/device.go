package device

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"homelight/device/kasa"
	"homelight/types"
)

type Device interface {
	PollDeviceAndUpdateMetrics(ctx context.Context) error
	ResetMetricsToRogueValues()
	CommonMetricLabels() map[string]string
}

func NewDevice(config *types.DeviceConfig, client *kasa.Client, registry prometheus.Registerer) (Device, error) {
	switch config.Model {
	case types.KasaKL50B, types.KasaKL110B, types.KasaKL120, types.KasaKL130B, types.KasaLB130:
		return kasa.NewDevice(config, client, registry)
	default:
		return nil, fmt.Errorf("device %q has unsupported model %s", config.Name, config.Model)
	}
}
