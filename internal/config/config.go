// Package config implements TOML configuration loading, validation, and
// override resolution for notion-go. It supports a three-layer override
// chain (defaults -> config file -> environment/CLI flags) with strict
// unknown-key detection.
package config

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	Source  SourceConfig  `toml:"source"`
	Extract ExtractConfig `toml:"extract"`
	State   StateConfig   `toml:"state"`
	Logging LoggingConfig `toml:"logging"`
	Network NetworkConfig `toml:"network"`
}

// SourceConfig identifies the Notion workspace and API version.
// The integration token itself never lives in the config file; it is
// read from the NOTION_TOKEN environment variable.
type SourceConfig struct {
	BaseURL       string `toml:"base_url"`
	NotionVersion string `toml:"notion_version"`
}

// ExtractConfig controls stream selection and incremental sync behavior.
// start_date accepts a bare date (YYYY-MM-DD) or an ISO 8601 timestamp;
// a malformed value degrades to an unfiltered sync rather than failing.
type ExtractConfig struct {
	Streams            []string `toml:"streams"`
	StartDate          string   `toml:"start_date"`
	PageSize           int      `toml:"page_size"`
	SearchFilterObject string   `toml:"search_filter_object"`
	SearchQuery        string   `toml:"search_query"`
}

// StateConfig locates the bookmark database.
type StateConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig controls log output behavior.
// log_format "auto" selects text on a terminal and JSON otherwise.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// NetworkConfig controls HTTP client behavior.
type NetworkConfig struct {
	RequestTimeout string `toml:"request_timeout"`
	UserAgent      string `toml:"user_agent"`
}

// CLIOverrides holds values from CLI flags that override config file and
// environment settings. Slice and string zero values mean "not specified".
type CLIOverrides struct {
	ConfigPath   string   // --config flag (empty = use default)
	StatePath    string   // --state flag
	Streams      []string // --stream flags
	StartDate    string   // --start-date flag
	PageSize     int      // --page-size flag (0 = not specified)
	FilterObject string   // --filter-object flag
	Query        string   // --query flag
}
