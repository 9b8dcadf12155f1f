package config

import "runtime"

// ApplyAdaptiveDefaults fills settings left at zero with values derived from
// the host. Explicit values are preserved.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateSweepWorkers()
	}
	return cfg
}

// EstimateSweepWorkers returns how many sweep series may run at once, capped
// at the four series of the standard comparison.
func EstimateSweepWorkers() int {
	numCPU := runtime.NumCPU()
	switch {
	case numCPU <= 1:
		return 1
	case numCPU < 4:
		return numCPU
	default:
		return 4
	}
}
