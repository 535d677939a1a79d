package kasa

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"homelight/logging"
	"homelight/types"
)

// Client drives bulbs at arbitrary addresses. It holds no per-call state, so
// one Client may be shared by concurrent callers; every call opens its own socket.
type Client struct {
	Port               uint16
	Timeout            time.Duration
	Transport          types.Transport
	ResponseHeaderSize int

	logger  *zap.Logger
	metrics *clientMetrics
}

// NewClient returns a UDP client on the default port. A nil logger uses the
// global one and a nil registry disables request metrics.
func NewClient(logger *zap.Logger, registry prometheus.Registerer) *Client {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Client{
		Port:      DefaultPort,
		Timeout:   DefaultTimeout,
		Transport: types.TransportUDP,
		logger:    logger,
		metrics:   registerClientMetrics(registry),
	}
}

// GetStatus fetches the light state. For a bulb that is off, the result holds
// the state it will turn back on with, and OnOff is 0.
func (c *Client) GetStatus(ctx context.Context, address string) (*LightState, error) {
	response, err := c.send(ctx, GetStateCommand(), address)
	if err != nil {
		return nil, err
	}
	state, err := LightStateFromResponse(response)
	if err != nil {
		return nil, fmt.Errorf("could not read light state from %s: %w", address, err)
	}
	return state, nil
}

func (c *Client) GetLightDetails(ctx context.Context, address string) (*LightDetails, error) {
	response, err := c.send(ctx, LightDetailsCommand(), address)
	if err != nil {
		return nil, err
	}
	details, err := LightDetailsFromResponse(response)
	if err != nil {
		return nil, fmt.Errorf("could not read light details from %s: %w", address, err)
	}
	return details, nil
}

func (c *Client) TurnOn(ctx context.Context, address string, transitionPeriod time.Duration) (Response, error) {
	return c.transition(ctx, OnOffCommand(true, transitionPeriod), address)
}

func (c *Client) TurnOff(ctx context.Context, address string, transitionPeriod time.Duration) (Response, error) {
	return c.transition(ctx, OnOffCommand(false, transitionPeriod), address)
}

func (c *Client) SetBrightness(ctx context.Context, address string, brightness int, transitionPeriod time.Duration) (Response, error) {
	return c.transition(ctx, BrightnessCommand(brightness, transitionPeriod), address)
}

func (c *Client) SetColor(ctx context.Context, address string, brightness, hue, saturation int, transitionPeriod time.Duration) (Response, error) {
	return c.transition(ctx, ColorCommand(brightness, hue, saturation, transitionPeriod), address)
}

func (c *Client) SetColorTemperature(ctx context.Context, address string, brightness, kelvin int, transitionPeriod time.Duration) (Response, error) {
	return c.transition(ctx, ColorTemperatureCommand(brightness, kelvin, transitionPeriod), address)
}

// transition sends cmd and returns the raw reply, failing only if the bulb
// reported a non-zero err_code.
func (c *Client) transition(ctx context.Context, cmd Command, address string) (Response, error) {
	response, err := c.send(ctx, cmd, address)
	if err != nil {
		return nil, err
	}
	if _, err := response.Result(LightingService, cmd.Method()); err != nil {
		return response, fmt.Errorf("%s on %s: %w", cmd.Method(), address, err)
	}
	return response, nil
}

// log falls back to the global logger for clients built as literals.
func (c *Client) log() *zap.Logger {
	if c.logger == nil {
		return logging.GetLogger()
	}
	return c.logger
}

func (c *Client) send(ctx context.Context, cmd Command, address string) (Response, error) {
	opts := Options{
		Port:               c.Port,
		Timeout:            c.Timeout,
		ResponseHeaderSize: c.ResponseHeaderSize,
		Logger:             c.log(),
	}
	transport := c.Transport
	if transport == "" {
		transport = types.TransportUDP
	}

	var startTime = time.Now()
	var response Response
	var err error
	switch transport {
	case types.TransportUDP:
		response, err = SendUDP(ctx, cmd, address, opts)
	case types.TransportTCP:
		response, err = SendTCP(ctx, cmd, address, opts)
	default:
		return nil, fmt.Errorf("unsupported transport %q", transport)
	}
	c.metrics.observe(transport, time.Since(startTime), err)

	if err != nil {
		c.log().Debug("Request failed",
			zap.String("addr", address),
			zap.String("method", cmd.Method()),
			zap.Error(err))
		return nil, fmt.Errorf("%s to %s: %w", cmd.Method(), address, err)
	}
	return response, nil
}
