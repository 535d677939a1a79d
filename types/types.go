package types

import (
	"strings"
	"time"
)

const (
	KasaKL50B DeviceType = iota
	KasaKL110B
	KasaKL120
	KasaKL130B
	KasaLB130
	KasaHS100
	KasaHS110
)

type DeviceType int

type Transport string

const (
	TransportUDP Transport = "udp"
	TransportTCP Transport = "tcp"
)

type DeviceConfig struct {
	Name      string
	Room      string
	Model     DeviceType
	Ip        string
	Port      uint16
	Transport Transport
	Timeout   time.Duration
}

var deviceTypeNames = map[string]DeviceType{
	"KL50B":  KasaKL50B,
	"KL110B": KasaKL110B,
	"KL120":  KasaKL120,
	"KL130B": KasaKL130B,
	"LB130":  KasaLB130,
	"HS100":  KasaHS100,
	"HS110":  KasaHS110,
}

var deviceTypeIsLight = []DeviceType{KasaKL50B, KasaKL110B, KasaKL120, KasaKL130B, KasaLB130}

// DeviceTypeFor maps a model name as printed on the bulb (e.g. "KL130B(UN)") to a DeviceType.
func DeviceTypeFor(model string) (DeviceType, bool) {
	name := strings.ToUpper(strings.TrimSpace(model))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	deviceType, ok := deviceTypeNames[name]
	return deviceType, ok
}

func (d DeviceType) String() string {
	for name, deviceType := range deviceTypeNames {
		if deviceType == d {
			return name
		}
	}
	return "unknown"
}

func IsLight(model DeviceType) bool {
	return contains(deviceTypeIsLight, model)
}

func contains[E comparable](list []E, item E) bool {
	for _, e := range list {
		if e == item {
			return true
		}
	}
	return false
}
