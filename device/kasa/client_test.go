package kasa

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homelight/types"
)

const transitionOkReply = `{"smartlife.iot.smartbulb.lightingservice":{"transition_light_state":{"on_off":1,"mode":"normal","hue":0,"saturation":0,"color_temp":2700,"brightness":50,"err_code":0}}}`

func TestClientGetStatus(t *testing.T) {
	_, addr := startUDPBulb(t, replyWith(onStateReply))

	state, err := NewClient(nil, nil).GetStatus(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, LightState{OnOff: 1, Mode: "normal", ColorTemp: 3000, Brightness: 100}, modelled(state))
	assert.Equal(t, "normal", state.Raw["mode"])
}

func TestClientGetStatusWhenOff(t *testing.T) {
	_, addr := startUDPBulb(t, replyWith(offStateReply))

	state, err := NewClient(nil, nil).GetStatus(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, 0, state.OnOff)
	assert.Equal(t, 30, state.Brightness)
	assert.Equal(t, 120, state.Hue)
}

func TestClientGetLightDetails(t *testing.T) {
	_, addr := startUDPBulb(t, replyWith(detailsReply))

	details, err := NewClient(nil, nil).GetLightDetails(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, 800, details.MaximumLumens)
}

func TestClientTransitions(t *testing.T) {
	bulb, addr := startUDPBulb(t, replyWith(transitionOkReply))
	client := NewClient(nil, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() (Response, error)
		command Command
	}{
		{"turn on", func() (Response, error) { return client.TurnOn(ctx, addr, 0) }, OnOffCommand(true, 0)},
		{"turn off", func() (Response, error) { return client.TurnOff(ctx, addr, time.Second) }, OnOffCommand(false, time.Second)},
		{"brightness", func() (Response, error) { return client.SetBrightness(ctx, addr, 25, 0) }, BrightnessCommand(25, 0)},
		{"colour", func() (Response, error) { return client.SetColor(ctx, addr, 50, 180, 70, time.Second) }, ColorCommand(50, 180, 70, time.Second)},
		{"temperature", func() (Response, error) { return client.SetColorTemperature(ctx, addr, 50, 2700, 0) }, ColorTemperatureCommand(50, 2700, 0)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response, err := test.call()
			require.NoError(t, err)
			assert.Equal(t, mustParse(t, transitionOkReply), response)

			expected, err := MarshalCommand(test.command)
			require.NoError(t, err)
			assert.Equal(t, expected, <-bulb.received)
		})
	}
}

func TestClientTransitionReportsDeviceError(t *testing.T) {
	const reply = `{"smartlife.iot.smartbulb.lightingservice":{"transition_light_state":{"err_code":-3,"err_msg":"invalid argument"}}}`
	_, addr := startUDPBulb(t, replyWith(reply))

	response, err := NewClient(nil, nil).SetBrightness(context.Background(), addr, 500, 0)
	var deviceError *DeviceError
	require.ErrorAs(t, err, &deviceError)
	assert.Equal(t, -3, deviceError.Code)
	assert.Equal(t, mustParse(t, reply), response)
}

func TestClientOverTCP(t *testing.T) {
	bulb, addr := startTCPBulb(t, true, replyWith(transitionOkReply))
	client := NewClient(nil, nil)
	client.Transport = types.TransportTCP

	_, err := client.TurnOn(context.Background(), addr, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x8c}, <-bulb.headers)
}

func TestClientUsesConfiguredPort(t *testing.T) {
	bulb, _ := startUDPBulb(t, replyWith(onStateReply))
	client := NewClient(nil, nil)
	client.Port = uint16(bulb.conn.LocalAddr().(*net.UDPAddr).Port)

	state, err := client.GetStatus(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, state.IsOn())
}

func TestClientUnsupportedTransport(t *testing.T) {
	client := NewClient(nil, nil)
	client.Transport = "serial"

	_, err := client.TurnOn(context.Background(), "127.0.0.1", 0)
	assert.ErrorContains(t, err, `unsupported transport "serial"`)
}

func TestClientLiteralTimesOutWithoutLogger(t *testing.T) {
	_, addr := startUDPBulb(t, silent)
	client := &Client{Timeout: 50 * time.Millisecond}

	var err error
	assert.NotPanics(t, func() {
		_, err = client.GetStatus(context.Background(), addr)
	})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClientRecordsRequestMetrics(t *testing.T) {
	_, okAddr := startUDPBulb(t, replyWith(onStateReply))
	_, silentAddr := startUDPBulb(t, silent)
	registry := prometheus.NewRegistry()
	client := NewClient(nil, registry)
	client.Timeout = 50 * time.Millisecond

	_, err := client.GetStatus(context.Background(), okAddr)
	require.NoError(t, err)
	_, err = client.GetStatus(context.Background(), silentAddr)
	require.ErrorIs(t, err, ErrTimeout)
	client.Transport = types.TransportTCP
	_, err = client.GetStatus(context.Background(), unusedAddress(t))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(client.metrics.requests.WithLabelValues("udp", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(client.metrics.requests.WithLabelValues("udp", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(client.metrics.requests.WithLabelValues("tcp", "transport_error")))
	assert.Equal(t, 1, testutil.CollectAndCount(client.metrics.duration))
}
