package config

import "github.com/kelseyhightower/envconfig"

// parseEnv overlays Config fields from VAULTKEEPER_* environment variables
// (see the envconfig tags on Config). Unset variables leave the current
// values untouched.
func parseEnv(config *Config) {
	if err := envconfig.Process("", config); err != nil {
		panic(err)
	}
}
