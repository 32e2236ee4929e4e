// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"log/slog"
	"testing"
)

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level LogLevel
		valid bool
		slog  slog.Level
	}{
		{LogLevelDebug, true, slog.LevelDebug},
		{LogLevelInfo, true, slog.LevelInfo},
		{LogLevelWarn, true, slog.LevelWarn},
		{LogLevelError, true, slog.LevelError},
		{"trace", false, slog.LevelInfo},
		{"", false, slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()

			ok, errs := tt.level.IsValid()
			if ok != tt.valid {
				t.Errorf("IsValid() = %v, want %v", ok, tt.valid)
			}
			if !ok && (len(errs) != 1 || !errors.Is(errs[0], ErrInvalidLogLevel)) {
				t.Errorf("errors = %v, want one ErrInvalidLogLevel", errs)
			}
			if got := tt.level.Slog(); got != tt.slog {
				t.Errorf("Slog() = %v, want %v", got, tt.slog)
			}
		})
	}
}

func TestCatalogConfigIsValid(t *testing.T) {
	t.Parallel()

	valid := DefaultConfig().Catalog
	tests := []struct {
		name   string
		mutate func(*CatalogConfig)
		valid  bool
	}{
		{"defaults", func(*CatalogConfig) {}, true},
		{"empty pattern selects by position", func(c *CatalogConfig) { c.AssetPattern = "" }, true},
		{"empty timeout uses default", func(c *CatalogConfig) { c.Timeout = "" }, true},
		{"empty base url", func(c *CatalogConfig) { c.BaseURL = " " }, false},
		{"negative timeout", func(c *CatalogConfig) { c.Timeout = "-5s" }, false},
		{"bad glob", func(c *CatalogConfig) { c.AssetPattern = "[" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid
			tt.mutate(&c)
			ok, errs := c.IsValid()
			if ok != tt.valid {
				t.Fatalf("IsValid() = %v (%v), want %v", ok, errs, tt.valid)
			}
			if !ok && !errors.Is(errs[0], ErrInvalidCatalogConfig) {
				t.Errorf("error %v does not wrap ErrInvalidCatalogConfig", errs[0])
			}
		})
	}
}

func TestConfigIsValidCollectsErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Catalog.Timeout = "never"
	cfg.Log.Level = "loud"

	ok, errs := cfg.IsValid()
	if ok || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v", ok, errs)
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("expected InvalidConfigError, got %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 2 {
		t.Errorf("field errors = %d, want 2", len(cfgErr.FieldErrors))
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("does not wrap ErrInvalidConfig")
	}
}
