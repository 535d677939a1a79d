package kasa

import (
	"encoding/json"
	"fmt"
	"time"
)

// LightingService is the namespace every bulb command and reply is nested under.
const LightingService = "smartlife.iot.smartbulb.lightingservice"

const (
	methodGetLightState        = "get_light_state"
	methodGetLightDetails      = "get_light_details"
	methodTransitionLightState = "transition_light_state"

	modeNormal = "normal"
)

// Command is one request to a bulb. The variants are GetState, GetDetails,
// OnOff, Brightness, Color and ColorTemperature.
type Command interface {
	Method() string
	body() any
}

type GetState struct{}

type GetDetails struct{}

type OnOff struct {
	On               bool
	TransitionPeriod time.Duration
}

type Brightness struct {
	Brightness       int // 0-100
	TransitionPeriod time.Duration
}

type Color struct {
	Brightness       int // 0-100
	Hue              int // 0-360
	Saturation       int // 0-100
	TransitionPeriod time.Duration
}

type ColorTemperature struct {
	Brightness       int
	Kelvin           int
	TransitionPeriod time.Duration
}

func GetStateCommand() Command { return GetState{} }

func LightDetailsCommand() Command { return GetDetails{} }

func OnOffCommand(on bool, transitionPeriod time.Duration) Command {
	return OnOff{On: on, TransitionPeriod: transitionPeriod}
}

func BrightnessCommand(brightness int, transitionPeriod time.Duration) Command {
	return Brightness{Brightness: brightness, TransitionPeriod: transitionPeriod}
}

func ColorCommand(brightness, hue, saturation int, transitionPeriod time.Duration) Command {
	return Color{Brightness: brightness, Hue: hue, Saturation: saturation, TransitionPeriod: transitionPeriod}
}

func ColorTemperatureCommand(brightness, kelvin int, transitionPeriod time.Duration) Command {
	return ColorTemperature{Brightness: brightness, Kelvin: kelvin, TransitionPeriod: transitionPeriod}
}

func (GetState) Method() string         { return methodGetLightState }
func (GetDetails) Method() string       { return methodGetLightDetails }
func (OnOff) Method() string            { return methodTransitionLightState }
func (Brightness) Method() string       { return methodTransitionLightState }
func (Color) Method() string            { return methodTransitionLightState }
func (ColorTemperature) Method() string { return methodTransitionLightState }

// transitionLightState is the wire form of a transition; nil fields are left out.
type transitionLightState struct {
	IgnoreDefault    int    `json:"ignore_default"`
	Mode             string `json:"mode"`
	TransitionPeriod int64  `json:"transition_period"`
	OnOff            *int   `json:"on_off,omitempty"`
	Brightness       *int   `json:"brightness,omitempty"`
	Hue              *int   `json:"hue,omitempty"`
	Saturation       *int   `json:"saturation,omitempty"`
	ColorTemp        *int   `json:"color_temp,omitempty"`
}

func (GetState) body() any   { return struct{}{} }
func (GetDetails) body() any { return struct{}{} }

func (c OnOff) body() any {
	onOff := boolToInt(c.On)
	return transitionLightState{
		Mode:             modeNormal,
		TransitionPeriod: milliseconds(c.TransitionPeriod),
		OnOff:            &onOff,
	}
}

func (c Brightness) body() any {
	return transitionLightState{
		Mode:             modeNormal,
		TransitionPeriod: milliseconds(c.TransitionPeriod),
		OnOff:            intPtr(1),
		Brightness:       intPtr(c.Brightness),
	}
}

func (c Color) body() any {
	return transitionLightState{
		IgnoreDefault:    1,
		Mode:             modeNormal,
		TransitionPeriod: milliseconds(c.TransitionPeriod),
		OnOff:            intPtr(1),
		Brightness:       intPtr(c.Brightness),
		Hue:              intPtr(c.Hue),
		Saturation:       intPtr(c.Saturation),
		ColorTemp:        intPtr(0),
	}
}

func (c ColorTemperature) body() any {
	return transitionLightState{
		IgnoreDefault:    1,
		Mode:             modeNormal,
		TransitionPeriod: milliseconds(c.TransitionPeriod),
		OnOff:            intPtr(1),
		Brightness:       intPtr(c.Brightness),
		Hue:              intPtr(0),
		Saturation:       intPtr(0),
		ColorTemp:        intPtr(c.Kelvin),
	}
}

// MarshalCommand renders cmd as the JSON text the bulb expects, e.g.
// {"smartlife.iot.smartbulb.lightingservice":{"get_light_state":{}}}
func MarshalCommand(cmd Command) ([]byte, error) {
	if cmd == nil {
		return nil, fmt.Errorf("cannot marshal nil command")
	}
	body, err := json.Marshal(map[string]map[string]any{
		LightingService: {cmd.Method(): cmd.body()},
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal %s command: %w", cmd.Method(), err)
	}
	return body, nil
}

func milliseconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intPtr(i int) *int { return &i }
