package kasa

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrTimeout is returned when a bulb does not answer within the allowed time.
var ErrTimeout = errors.New("timed out waiting for bulb response")

type TransportError struct {
	Op   string // dial, listen, write or read
	Addr string
	Err  error
}

func (e *TransportError) Error() string {
	return "kasa " + e.Op + " " + e.Addr + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

type DecodeError struct {
	Payload []byte // the decrypted bytes that failed to parse
	Err     error
}

func (e *DecodeError) Error() string {
	return "could not decode bulb response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DeviceError is a non-zero err_code reported by the bulb itself.
type DeviceError struct {
	Code    int
	Message string
}

func (e *DeviceError) Error() string {
	if e.Message == "" {
		return "bulb returned error code " + strconv.Itoa(e.Code)
	}
	return fmt.Sprintf("bulb returned error code %d: %s", e.Code, e.Message)
}
