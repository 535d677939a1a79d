package kasa

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"homelight/types"
)

type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func registerClientMetrics(registry prometheus.Registerer) *clientMetrics {
	if registry == nil {
		return nil
	}
	metrics := &clientMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kasa",
			Name:      "requests_total",
			Help:      "Requests sent to bulbs, by transport and outcome.",
		}, []string{"transport", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kasa",
			Name:      "request_duration_seconds",
			Help:      "Time from sending a request to decoding its reply.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		}, []string{"transport"}),
	}
	registry.MustRegister(metrics.requests, metrics.duration)
	return metrics
}

func (m *clientMetrics) observe(transport types.Transport, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(transport), resultLabel(err)).Inc()
	if err == nil {
		m.duration.WithLabelValues(string(transport)).Observe(elapsed.Seconds())
	}
}

func resultLabel(err error) string {
	var transportError *TransportError
	var decodeError *DecodeError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.As(err, &transportError):
		return "transport_error"
	case errors.As(err, &decodeError):
		return "decode_error"
	default:
		return "error"
	}
}

type prometheusMetrics struct {
	commonLabels prometheus.Labels

	up         *prometheus.Gauge
	turnedOn   *prometheus.Gauge
	brightness *prometheus.Gauge
	scrapeTime *prometheus.Gauge

	hue               *prometheus.Gauge // only for colour bulbs
	saturation        *prometheus.Gauge // only for colour bulbs
	colourTemperature *prometheus.Gauge // only for variable temperature bulbs

	wattage       *prometheus.Gauge
	maximumLumens *prometheus.Gauge
}

func registerMetrics(registry prometheus.Registerer, config *types.DeviceConfig) *prometheusMetrics {
	commonLabels := types.GenerateCommonLabels(config)
	metrics := prometheusMetrics{
		commonLabels: commonLabels,

		up:         types.NewGauge(registry, commonLabels, "bulb_up", "1 if the last poll of the bulb succeeded"),
		turnedOn:   types.NewGauge(registry, commonLabels, "bulb_turned_on_bool", "1 if the bulb is lit"),
		brightness: types.NewGauge(registry, commonLabels, "bulb_brightness_percent", "Brightness, or the resume brightness while off"),
		scrapeTime: types.NewGauge(registry, commonLabels, "bulb_scrape_duration_seconds", "Time taken by the last poll"),
	}
	if isLightColoured(config) {
		metrics.hue = types.NewGauge(registry, commonLabels, "bulb_hue_degrees", "Hue in degrees")
		metrics.saturation = types.NewGauge(registry, commonLabels, "bulb_saturation_percent", "Colour saturation")
	}
	if isLightVariableTemperature(config) {
		metrics.colourTemperature = types.NewGauge(registry, commonLabels, "bulb_colour_temperature_kelvin", "White temperature, 0 in colour mode")
	}
	if hasLightDetails(config) {
		metrics.wattage = types.NewGauge(registry, commonLabels, "bulb_wattage", "Rated power draw")
		metrics.maximumLumens = types.NewGauge(registry, commonLabels, "bulb_max_lumens", "Rated light output")
	}
	metrics.resetToRogueValues()
	return &metrics
}

func (metrics *prometheusMetrics) updateMetrics(status *bulbStatus) {
	types.SetFromBool(metrics.up, true)
	types.SetFromBool(metrics.turnedOn, status.state.IsOn())
	types.SetFromInt(metrics.brightness, status.state.Brightness)
	types.SetIfPresent(metrics.scrapeTime, status.scrapeDuration.Seconds())
	types.SetFromInt(metrics.hue, status.state.Hue)
	types.SetFromInt(metrics.saturation, status.state.Saturation)
	types.SetFromInt(metrics.colourTemperature, status.state.ColorTemp)
	if status.details != nil {
		types.SetFromInt(metrics.wattage, status.details.Wattage)
		types.SetFromInt(metrics.maximumLumens, status.details.MaximumLumens)
	}
}

func (metrics *prometheusMetrics) resetToRogueValues() {
	types.SetFromBool(metrics.up, false)
	types.SetUnknown(
		metrics.turnedOn, metrics.brightness, metrics.scrapeTime,
		metrics.hue, metrics.saturation, metrics.colourTemperature,
		metrics.wattage, metrics.maximumLumens,
	)
}
