package kasa

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// LightState is the normalised answer to get_light_state. While the bulb is
// off, the fields describe the state it will resume to.
type LightState struct {
	OnOff      int    `mapstructure:"on_off" json:"on_off"`
	Mode       string `mapstructure:"mode" json:"mode"`
	Hue        int    `mapstructure:"hue" json:"hue"`
	Saturation int    `mapstructure:"saturation" json:"saturation"`
	ColorTemp  int    `mapstructure:"color_temp" json:"color_temp"`
	Brightness int    `mapstructure:"brightness" json:"brightness"`
	ErrCode    int    `mapstructure:"err_code" json:"err_code"`

	// Raw is the light-state object as the bulb sent it, or the promoted
	// dft_on_state object while off. Fields the struct does not model survive here.
	Raw map[string]any `mapstructure:"-" json:"-"`
}

func (s *LightState) IsOn() bool { return s.OnOff != 0 }

// IsColour reports whether the bulb is in hue/saturation mode rather than white temperature.
func (s *LightState) IsColour() bool { return s.ColorTemp == 0 }

// LightDetails is the fixed lamp data returned by get_light_details.
type LightDetails struct {
	LampBeamAngle          int `mapstructure:"lamp_beam_angle" json:"lamp_beam_angle"`
	MinimumVoltage         int `mapstructure:"min_voltage" json:"min_voltage"`
	MaximumVoltage         int `mapstructure:"max_voltage" json:"max_voltage"`
	Wattage                int `mapstructure:"wattage" json:"wattage"`
	IncandescentEquivalent int `mapstructure:"incandescent_equivalent" json:"incandescent_equivalent"`
	MaximumLumens          int `mapstructure:"max_lumens" json:"max_lumens"`
	ColorRenderingIndex    int `mapstructure:"color_rendering_index" json:"color_rendering_index"`
}

const defaultOnStateKey = "dft_on_state"

// LightStateFromResponse extracts the light state from a get_light_state reply.
// An "off" reply nests the resume state under dft_on_state; that object is
// merged over the top level and on_off is forced back to 0.
func LightStateFromResponse(response Response) (*LightState, error) {
	data, err := response.Result(LightingService, methodGetLightState)
	if err != nil {
		return nil, err
	}
	state := &LightState{}
	if err := decodeInto(data, state); err != nil {
		return nil, err
	}
	if state.OnOff != 0 {
		state.Raw = data
		return state, nil
	}
	raw := data
	if nested, present := data[defaultOnStateKey]; present {
		offState, ok := nested.(map[string]any)
		if !ok {
			return nil, &DecodeError{Err: fmt.Errorf("%s has unexpected type %T", defaultOnStateKey, nested)}
		}
		if err := decodeInto(offState, state); err != nil {
			return nil, err
		}
		raw = offState
	}
	state.OnOff = 0
	state.Raw = make(map[string]any, len(raw)+1)
	for key, value := range raw {
		state.Raw[key] = value
	}
	state.Raw["on_off"] = float64(0)
	return state, nil
}

func LightDetailsFromResponse(response Response) (*LightDetails, error) {
	data, err := response.Result(LightingService, methodGetLightDetails)
	if err != nil {
		return nil, err
	}
	details := &LightDetails{}
	if err := decodeInto(data, details); err != nil {
		return nil, err
	}
	return details, nil
}

func decodeInto(data map[string]any, into any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           into,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(data); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
