package kasa

import "homelight/types"

func isLight(config *types.DeviceConfig) bool {
	return types.IsLight(config.Model)
}

func isLightVariableTemperature(config *types.DeviceConfig) bool {
	return config.Model == types.KasaKL120 || config.Model == types.KasaKL130B || config.Model == types.KasaLB130
}

func isLightColoured(config *types.DeviceConfig) bool {
	return config.Model == types.KasaKL130B || config.Model == types.KasaLB130
}

// hasLightDetails reports whether get_light_details is answered. Older LB-series firmware doesn't.
func hasLightDetails(config *types.DeviceConfig) bool {
	return isLight(config) && config.Model != types.KasaLB130
}
