package config

import "github.com/kelseyhightower/envconfig"

// EnvPrefix is prepended to every variable name, e.g. LEDGER_DB_PATH.
const EnvPrefix = "LEDGER"

// parseEnv overlays Config with LEDGER_* environment variables. Unset
// variables leave the field alone. Panics on malformed values.
func parseEnv(cfg *Config) {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		panic(err)
	}
}
