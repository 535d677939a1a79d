package kasa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	response, err := parseResponse([]byte(onStateReply))
	require.NoError(t, err)
	assert.Equal(t, mustParse(t, onStateReply), response)
}

func TestParseResponseRejectsGarbage(t *testing.T) {
	for _, payload := range []string{"", "not json", "[1,2,3]", "null"} {
		_, err := parseResponse([]byte(payload))
		var decodeError *DecodeError
		if assert.ErrorAs(t, err, &decodeError, "payload %q", payload) {
			assert.Equal(t, []byte(payload), decodeError.Payload)
		}
	}
}

func TestResultReportsMethodErrorCode(t *testing.T) {
	response := mustParse(t, `{"smartlife.iot.smartbulb.lightingservice":{"transition_light_state":{"err_code":-3,"err_msg":"invalid argument"}}}`)
	_, err := response.Result(LightingService, "transition_light_state")
	assert.Equal(t, &DeviceError{Code: -3, Message: "invalid argument"}, err)
	assert.EqualError(t, err, "bulb returned error code -3: invalid argument")
}

func TestResultReportsNamespaceErrorCode(t *testing.T) {
	response := mustParse(t, `{"smartlife.iot.smartbulb.lightingservice":{"err_code":-1,"err_msg":"module not support"}}`)
	_, err := response.Result(LightingService, "get_light_state")
	assert.Equal(t, &DeviceError{Code: -1, Message: "module not support"}, err)
}

func TestResultMissingMethod(t *testing.T) {
	_, err := mustParse(t, onStateReply).Result(LightingService, "get_light_details")
	var decodeError *DecodeError
	assert.ErrorAs(t, err, &decodeError)

	_, err = mustParse(t, `{"system":{}}`).Result(LightingService, "get_light_state")
	assert.ErrorAs(t, err, &decodeError)
}
