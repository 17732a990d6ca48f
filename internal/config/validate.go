package config

import (
	"fmt"
	"strings"
	"time"
)

// Notion list endpoints accept page sizes from 1 to 100.
const (
	minPageSize = 1
	maxPageSize = 100
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"auto": true,
	"text": true,
	"json": true,
}

// Validate checks structural configuration constraints. The start_date is
// deliberately not validated here: a malformed boundary degrades to an
// unfiltered sync at run time rather than refusing to start.
func Validate(cfg *Config) error {
	if cfg.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url must not be empty")
	}

	if strings.HasSuffix(cfg.Source.BaseURL, "/") {
		return fmt.Errorf("source.base_url must not end with a slash: %q", cfg.Source.BaseURL)
	}

	if cfg.Extract.PageSize < minPageSize || cfg.Extract.PageSize > maxPageSize {
		return fmt.Errorf("extract.page_size must be between %d and %d, got %d",
			minPageSize, maxPageSize, cfg.Extract.PageSize)
	}

	if !validLogLevels[cfg.Logging.LogLevel] {
		return fmt.Errorf("logging.log_level must be one of debug, info, warn, error: %q", cfg.Logging.LogLevel)
	}

	if !validLogFormats[cfg.Logging.LogFormat] {
		return fmt.Errorf("logging.log_format must be one of auto, text, json: %q", cfg.Logging.LogFormat)
	}

	if _, err := time.ParseDuration(cfg.Network.RequestTimeout); err != nil {
		return fmt.Errorf("network.request_timeout: %w", err)
	}

	return nil
}

// RequestTimeout returns the parsed network timeout. Validate guarantees
// the stored string parses.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Network.RequestTimeout)
	if err != nil {
		return 60 * time.Second
	}

	return d
}
