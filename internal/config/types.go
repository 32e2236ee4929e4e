// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/annoload/annoload/internal/catalog"
	"github.com/annoload/annoload/internal/game"
)

const (
	// LogLevelDebug logs everything, including archive classification details.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs lifecycle events.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs recoverable failures only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	// DefaultCatalogTimeout is the default per-request catalog timeout.
	DefaultCatalogTimeout = "30s"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidCatalogConfig is the sentinel error wrapped by InvalidCatalogConfigError.
	ErrInvalidCatalogConfig = errors.New("invalid catalog config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level written to stderr.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// Config holds the application configuration.
	Config struct {
		// Catalog configures the mod loader release lookup
		Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`
		// Game configures where the game installation is searched
		Game GameConfig `json:"game" mapstructure:"game"`
		// Downloads configures the download manager
		Downloads DownloadsConfig `json:"downloads" mapstructure:"downloads"`
		// Log configures logging
		Log LogConfig `json:"log" mapstructure:"log"`
	}

	// CatalogConfig configures the GitHub releases client.
	CatalogConfig struct {
		// BaseURL is the repository API base, e.g. https://api.github.com/repos/owner/name
		BaseURL string `json:"base_url" mapstructure:"base_url"`
		// AssetPattern selects the release asset by name; empty selects by position.
		AssetPattern string `json:"asset_pattern" mapstructure:"asset_pattern"`
		// Timeout is a Go duration string.
		Timeout string `json:"timeout" mapstructure:"timeout"`
		// Token authenticates API requests. Only read from the environment.
		Token string `json:"-" mapstructure:"token"`
	}

	// InvalidCatalogConfigError is returned when CatalogConfig has invalid fields.
	// It wraps ErrInvalidCatalogConfig for errors.Is() compatibility.
	InvalidCatalogConfigError struct {
		FieldErrors []error
	}

	// GameConfig lists the sources searched for the game installation.
	GameConfig struct {
		// Path pins the installation root
		Path string `json:"path" mapstructure:"path"`
		// SteamLibraries are Steam library roots
		SteamLibraries []string `json:"steam_libraries" mapstructure:"steam_libraries"`
		// SearchPaths are probed directly as installation roots
		SearchPaths []string `json:"search_paths" mapstructure:"search_paths"`
	}

	// DownloadsConfig configures where downloads go and what happens after.
	DownloadsConfig struct {
		// Dir is the download directory; empty means <data dir>/downloads
		Dir string `json:"dir" mapstructure:"dir"`
		// AutoInstall installs a finished download for its game
		AutoInstall bool `json:"auto_install" mapstructure:"auto_install"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// InvalidConfigError is returned when Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Slog maps the level onto slog. Unknown values map to info.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// TimeoutDuration parses Timeout. An empty value yields the default.
func (c CatalogConfig) TimeoutDuration() (time.Duration, error) {
	raw := c.Timeout
	if strings.TrimSpace(raw) == "" {
		raw = DefaultCatalogTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("catalog.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("catalog.timeout: must be positive, got %s", raw)
	}
	return d, nil
}

// IsValid returns whether the CatalogConfig has valid fields.
func (c CatalogConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, errors.New("catalog.base_url: must not be empty"))
	}
	if c.AssetPattern != "" && !doublestar.ValidatePattern(c.AssetPattern) {
		errs = append(errs, fmt.Errorf("catalog.asset_pattern: invalid glob %q", c.AssetPattern))
	}
	if _, err := c.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidCatalogConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCatalogConfigError.
func (e *InvalidCatalogConfigError) Error() string {
	return fmt.Sprintf("invalid catalog config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidCatalogConfig for errors.Is() compatibility.
func (e *InvalidCatalogConfigError) Unwrap() error { return ErrInvalidCatalogConfig }

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.Catalog.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Log.Level.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:      game.DefaultCatalogURL,
			AssetPattern: catalog.DefaultAssetPattern,
			Timeout:      DefaultCatalogTimeout,
		},
		Game: GameConfig{
			SteamLibraries: []string{},
			SearchPaths:    []string{},
		},
		Downloads: DownloadsConfig{
			AutoInstall: true,
		},
		Log: LogConfig{
			Level: LogLevelInfo,
		},
	}
}
