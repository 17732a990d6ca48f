package config

// Default values for configuration options: layer 0 of the override chain,
// chosen so the tool works with nothing but NOTION_TOKEN set.
const (
	defaultBaseURL        = "https://api.notion.com/v1"
	defaultNotionVersion  = "2022-06-28"
	defaultPageSize       = 100
	defaultLogLevel       = "info"
	defaultLogFormat      = "auto"
	defaultRequestTimeout = "60s"
	defaultUserAgent      = "notion-go/0.1"
)

// DefaultConfig returns a Config populated with all default values.
// This is used both as the starting point for TOML decoding (so unset
// fields retain defaults) and as the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:       defaultBaseURL,
			NotionVersion: defaultNotionVersion,
		},
		Extract: ExtractConfig{
			PageSize: defaultPageSize,
		},
		State: StateConfig{
			Path: DefaultStatePath(),
		},
		Logging: LoggingConfig{
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
		Network: NetworkConfig{
			RequestTimeout: defaultRequestTimeout,
			UserAgent:      defaultUserAgent,
		},
	}
}
