package config

import "os"

// Environment variable names.
const (
	EnvConfig = "NOTION_GO_CONFIG"
	EnvState  = "NOTION_GO_STATE"
	EnvToken  = "NOTION_TOKEN" //nolint:gosec // variable name, not a credential
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath string // NOTION_GO_CONFIG: override config file path
	StatePath  string // NOTION_GO_STATE: override state database path
	Token      string // NOTION_TOKEN: integration token
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. This does not modify the Config; callers apply the relevant fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath: os.Getenv(EnvConfig),
		StatePath:  os.Getenv(EnvState),
		Token:      os.Getenv(EnvToken),
	}
}
