package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override, e.g. DUELSIM_WORKERS or
// DUELSIM_BALANCE_COMBAT_BASE_DAMAGE.
const EnvPrefix = "DUELSIM_"

// ApplyEnv overlays environment variables on an already loaded config.
// Unset variables leave the loaded values untouched.
func ApplyEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
