package config

import (
	"time"

	"homelight/types"
)

type AppConfig struct {
	Devices      []types.DeviceConfig
	Timeout      time.Duration
	PollInterval time.Duration
	Listen       string
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Devices:      []types.DeviceConfig{},
		Timeout:      2 * time.Second,
		PollInterval: 10 * time.Second,
		Listen:       ":8080",
	}
}
