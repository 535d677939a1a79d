package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"homelight/types"
)

type deviceFromFile struct {
	Name      string        `yaml:"name"`
	Room      string        `yaml:"room"`
	Ip        string        `yaml:"ip"`
	Port      uint16        `yaml:"port"`
	Model     string        `yaml:"model"`
	Transport string        `yaml:"transport"`
	Timeout   time.Duration `yaml:"timeout"`
}

type configFile struct {
	Timeout      time.Duration    `yaml:"timeout"`
	PollInterval time.Duration    `yaml:"poll_interval"`
	Listen       string           `yaml:"listen"`
	Devices      []deviceFromFile `yaml:"devices"`
}

// ReadAppConfig loads the device manifest at filename over the defaults.
func ReadAppConfig(filename string) (*AppConfig, error) {
	fromFile := configFile{}
	if err := readConfig(filename, &fromFile); err != nil {
		return nil, err
	}
	return fromFile.toAppConfig()
}

func (file configFile) toAppConfig() (*AppConfig, error) {
	appConfig := DefaultAppConfig()
	if file.Timeout > 0 {
		appConfig.Timeout = file.Timeout
	}
	if file.PollInterval > 0 {
		appConfig.PollInterval = file.PollInterval
	}
	if file.Listen != "" {
		appConfig.Listen = file.Listen
	}
	appConfig.Devices = make([]types.DeviceConfig, 0, len(file.Devices))
	for i, device := range file.Devices {
		if device.Ip == "" {
			return nil, fmt.Errorf("device %d (%s) has no ip", i, device.Name)
		}
		model, ok := types.DeviceTypeFor(device.Model)
		if !ok {
			return nil, fmt.Errorf("device %d (%s) has unknown model '%s'", i, device.Name, device.Model)
		}
		transport, err := parseTransport(device.Transport)
		if err != nil {
			return nil, fmt.Errorf("device %d (%s): %w", i, device.Name, err)
		}
		appConfig.Devices = append(appConfig.Devices, types.DeviceConfig{
			Name:      device.Name,
			Room:      device.Room,
			Model:     model,
			Ip:        device.Ip,
			Port:      device.Port,
			Transport: transport,
			Timeout:   device.Timeout,
		})
	}
	return appConfig, nil
}

func parseTransport(value string) (types.Transport, error) {
	switch transport := types.Transport(strings.ToLower(strings.TrimSpace(value))); transport {
	case "":
		return types.TransportUDP, nil
	case types.TransportUDP, types.TransportTCP:
		return transport, nil
	default:
		return "", fmt.Errorf("unknown transport '%s'", value)
	}
}

func readConfig[E any](filename string, into *E) error {
	fileBytes, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("could not read config file '%s': %w", filename, err)
	}
	if err = yaml.Unmarshal(fileBytes, into); err != nil {
		return fmt.Errorf("could not unmarshal config file yaml '%s': %w", filename, err)
	}
	return nil
}
