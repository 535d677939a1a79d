package kasa

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Response is a decoded reply document, keyed by namespace and then by method.
type Response map[string]any

func parseResponse(clearText []byte) (Response, error) {
	var response Response
	if err := json.Unmarshal(clearText, &response); err != nil {
		return nil, &DecodeError{Payload: clearText, Err: err}
	}
	if response == nil {
		return nil, &DecodeError{Payload: clearText, Err: errors.New("response is not a JSON object")}
	}
	return response, nil
}

// Result returns the object the bulb sent back for method within namespace.
// A non-zero err_code at either level is returned as a *DeviceError.
func (r Response) Result(namespace, method string) (map[string]any, error) {
	service, ok := r[namespace].(map[string]any)
	if !ok {
		return nil, &DecodeError{Err: fmt.Errorf("response has no %q object", namespace)}
	}
	if err := errorCodeOf(service); err != nil {
		return nil, err
	}
	result, ok := service[method].(map[string]any)
	if !ok {
		return nil, &DecodeError{Err: fmt.Errorf("response has no %q object under %q", method, namespace)}
	}
	if err := errorCodeOf(result); err != nil {
		return nil, err
	}
	return result, nil
}

func errorCodeOf(data map[string]any) error {
	code, present := data["err_code"]
	if !present {
		return nil
	}
	number, ok := code.(float64)
	if !ok {
		return &DecodeError{Err: fmt.Errorf("err_code has unexpected type %T", code)}
	}
	if number == 0 {
		return nil
	}
	message, _ := data["err_msg"].(string)
	return &DeviceError{Code: int(number), Message: message}
}
