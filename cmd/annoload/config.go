// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/annoload/annoload/internal/config"
	"github.com/annoload/annoload/internal/issue"
	"github.com/annoload/annoload/pkg/types"
)

// newConfigCommand creates the `annoload config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage annoload configuration",
		Long: `Manage annoload configuration.

Configuration is stored in:
  - Linux: ~/.config/annoload/config.cue
  - macOS: ~/Library/Application Support/annoload/config.cue
  - Windows: %APPDATA%\annoload\config.cue

Every key can be overridden with an ANNOLOAD_ environment variable,
e.g. ANNOLOAD_LOG_LEVEL=debug. The catalog token is read from
GITHUB_TOKEN or ANNOLOAD_CATALOG_TOKEN only.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, path, err := config.LoadWithPath(ctx, config.LoadOptions{ConfigFilePath: app.configFilePath()})
	if err != nil {
		return &ExitError{Code: types.ExitUsage, Err: newServiceError(err, issue.ConfigLoadFailedId, "")}
	}

	out := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)
	if path != "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s:\n", keyStyle.Render("catalog"))
	fmt.Fprintf(out, "  base_url: %s\n", valueStyle.Render(cfg.Catalog.BaseURL))
	fmt.Fprintf(out, "  asset_pattern: %s\n", valueStyle.Render(orNone(cfg.Catalog.AssetPattern)))
	fmt.Fprintf(out, "  timeout: %s\n", valueStyle.Render(cfg.Catalog.Timeout))
	token := "(not set)"
	if cfg.Catalog.Token != "" {
		token = "(set)"
	}
	fmt.Fprintf(out, "  token: %s\n", SubtitleStyle.Render(token))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("game"))
	fmt.Fprintf(out, "  path: %s\n", valueStyle.Render(orNone(cfg.Game.Path)))
	fmt.Fprintf(out, "  steam_libraries: %s\n", valueStyle.Render(listOrNone(cfg.Game.SteamLibraries)))
	fmt.Fprintf(out, "  search_paths: %s\n", valueStyle.Render(listOrNone(cfg.Game.SearchPaths)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("downloads"))
	fmt.Fprintf(out, "  dir: %s\n", valueStyle.Render(orNone(cfg.Downloads.Dir)))
	fmt.Fprintf(out, "  auto_install: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Downloads.AutoInstall)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(out, "  level: %s\n", valueStyle.Render(cfg.Log.Level.String()))

	return nil
}

func initConfig(app *App) error {
	path, err := app.resolvedConfigPath()
	if err != nil {
		return err
	}

	created, err := config.CreateDefaultConfig(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(app *App) error {
	path, err := app.resolvedConfigPath()
	if err != nil {
		return err
	}
	dataDir, err := app.dataDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config file: %s\n", path)
	fmt.Fprintf(app.stdout, "Data directory: %s\n", dataDir)
	return nil
}

// resolvedConfigPath is the explicit config file if one was given, else the
// platform default.
func (a *App) resolvedConfigPath() (string, error) {
	if path := a.configFilePath(); path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
