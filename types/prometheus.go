package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func GenerateCommonLabels(dev *DeviceConfig) map[string]string {
	return map[string]string{
		"dev_room":      dev.Room,
		"dev_name":      dev.Name,
		"dev_ip":        dev.Ip,
		"dev_full_name": strings.TrimSpace(dev.Room + " " + dev.Name),
		"dev_model":     dev.Model.String(),
		"is_light":      strconv.FormatBool(IsLight(dev.Model)),
	}
}

// GaugeNamespace prefixes every per-bulb gauge.
const GaugeNamespace = "kasa"

// NewGauge registers a per-bulb gauge. Gauges are handed around by pointer so
// that a nil one marks a reading the model cannot report.
func NewGauge(registry prometheus.Registerer, commonLabels prometheus.Labels, name, help string) *prometheus.Gauge {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   GaugeNamespace,
		Name:        name,
		Help:        help,
		ConstLabels: commonLabels,
	})
	registry.MustRegister(gauge)
	return &gauge
}

func SetIfPresent(gauge *prometheus.Gauge, value float64) {
	if gauge == nil {
		return
	}
	(*gauge).Set(value)
}

func SetFromBool(gauge *prometheus.Gauge, value bool) {
	var reading float64
	if value {
		reading = 1
	}
	SetIfPresent(gauge, reading)
}

func SetFromInt(gauge *prometheus.Gauge, value int) {
	SetIfPresent(gauge, float64(value))
}

// SetUnknown marks every present gauge as NaN, so a dashboard shows a gap
// rather than the last reading of an unreachable bulb.
func SetUnknown(gauges ...*prometheus.Gauge) {
	for _, gauge := range gauges {
		SetIfPresent(gauge, math.NaN())
	}
}
