// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annoload/annoload/internal/issue"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Catalog.BaseURL != "https://api.github.com/repos/xforce/anno1800-mod-loader" {
		t.Errorf("base url = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.AssetPattern != "" {
		t.Errorf("asset pattern = %q, want empty (positional selection)", cfg.Catalog.AssetPattern)
	}
	if d, err := cfg.Catalog.TimeoutDuration(); err != nil || d.Seconds() != 30 {
		t.Errorf("timeout = %v, %v", d, err)
	}
	if !cfg.Downloads.AutoInstall {
		t.Error("auto install should default to true")
	}
	if cfg.Log.Level != LogLevelInfo {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if ok, errs := cfg.IsValid(); !ok {
		t.Errorf("default config invalid: %v", errs)
	}
}

//nolint:paralleltest // uses t.Setenv
func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv(EnvGitHubToken, "")
	t.Setenv("ANNOLOAD_CATALOG_TOKEN", "")

	cfg, path, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("LoadWithPath: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty", path)
	}
	if cfg.Catalog.AssetPattern != "" || cfg.Log.Level != LogLevelInfo || !cfg.Downloads.AutoInstall {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

//nolint:paralleltest // uses t.Setenv
func TestLoadFromFile(t *testing.T) {
	t.Setenv(EnvGitHubToken, "")

	dir := t.TempDir()
	writeConfig(t, dir, `
catalog: {
	asset_pattern: "*.zip"
	timeout:       "1m30s"
}
game: {
	path: "/games/anno"
	steam_libraries: ["/steam/a", "/steam/b"]
}
downloads: auto_install: false
log: level: "debug"
`)

	cfg, path, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("LoadWithPath: %v", err)
	}
	if path == "" {
		t.Error("resolved path should be set")
	}
	if cfg.Catalog.AssetPattern != "*.zip" {
		t.Errorf("asset pattern = %q", cfg.Catalog.AssetPattern)
	}
	if d, _ := cfg.Catalog.TimeoutDuration(); d.Seconds() != 90 {
		t.Errorf("timeout = %v", d)
	}
	// Unset keys keep their defaults.
	if cfg.Catalog.BaseURL != DefaultConfig().Catalog.BaseURL {
		t.Errorf("base url = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Game.Path != "/games/anno" || len(cfg.Game.SteamLibraries) != 2 || cfg.Game.SteamLibraries[1] != "/steam/b" {
		t.Errorf("game = %+v", cfg.Game)
	}
	if cfg.Downloads.AutoInstall {
		t.Error("auto install should be false")
	}
	if cfg.Log.Level != LogLevelDebug {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

//nolint:paralleltest // uses t.Setenv
func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvGitHubToken, "ghp_test")
	t.Setenv("ANNOLOAD_LOG_LEVEL", "warn")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.Token != "ghp_test" {
		t.Errorf("token = %q, want ghp_test", cfg.Catalog.Token)
	}
	if cfg.Log.Level != LogLevelWarn {
		t.Errorf("log level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown field", `color: "red"`, "color"},
		{"bad log level", `log: level: "loud"`, "log.level"},
		{"bad timeout", `catalog: timeout: "soon"`, "catalog.timeout"},
		{"bad url", `catalog: base_url: "ftp://example.com"`, "catalog.base_url"},
		{"wrong type", `downloads: auto_install: "yes"`, "downloads.auto_install"},
		{"syntax error", `game: {`, "config.cue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("expected error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("expected ActionableError, got %T: %v", err, err)
			}
			if len(ae.Suggestions) == 0 {
				t.Error("expected suggestions")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadInvalidGlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `catalog: asset_pattern: "loader[.zip"`)

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, ErrInvalidCatalogConfig) {
		t.Fatalf("expected invalid catalog config, got %v", err)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

//nolint:paralleltest // uses t.Setenv
func TestGenerateCUERoundTrip(t *testing.T) {
	t.Setenv(EnvGitHubToken, "")

	cfg := DefaultConfig()
	cfg.Game.Path = `C:\Games\Anno 1800`
	cfg.Game.SearchPaths = []string{"/a", "/b"}
	cfg.Log.Level = LogLevelError
	cfg.Catalog.Token = "secret"

	generated := GenerateCUE(cfg)
	if strings.Contains(generated, "secret") {
		t.Error("token must not be written")
	}

	path := filepath.Join(t.TempDir(), "nested", "config.cue")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load generated config: %v\n%s", err, generated)
	}
	if loaded.Game.Path != cfg.Game.Path || len(loaded.Game.SearchPaths) != 2 || loaded.Log.Level != LogLevelError {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.cue")
	written, err := CreateDefaultConfig(path)
	if err != nil || !written {
		t.Fatalf("CreateDefaultConfig = %v, %v", written, err)
	}
	written, err = CreateDefaultConfig(path)
	if err != nil || written {
		t.Errorf("second CreateDefaultConfig = %v, %v; want false, nil", written, err)
	}
}

//nolint:paralleltest // mutates package-level overrides
func TestDirOverrides(t *testing.T) {
	t.Cleanup(Reset)

	cfgDir := t.TempDir()
	dataDir := t.TempDir()
	SetConfigDirOverride(cfgDir)
	SetDataDirOverride(dataDir)

	if got, _ := ConfigDir(); got != cfgDir {
		t.Errorf("ConfigDir = %q", got)
	}
	if got, _ := DefaultConfigPath(); got != filepath.Join(cfgDir, "config.cue") {
		t.Errorf("DefaultConfigPath = %q", got)
	}
	cfg := DefaultConfig()
	if got, _ := cfg.DownloadsDir(); got != filepath.Join(dataDir, "downloads") {
		t.Errorf("DownloadsDir = %q", got)
	}
	cfg.Downloads.Dir = "/custom"
	if got, _ := cfg.DownloadsDir(); got != "/custom" {
		t.Errorf("DownloadsDir = %q", got)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"log", "level"}, "log.level"},
		{[]string{"game", "steam_libraries", "0"}, "game.steam_libraries[0]"},
		{[]string{"0"}, "0"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.in); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
