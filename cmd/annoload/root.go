// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/annoload/annoload/internal/config"
	"github.com/annoload/annoload/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "annoload",
		Short: "Keeps the Anno 1800 mod loader installed",
		Long: TitleStyle.Render("annoload") + SubtitleStyle.Render(" - Keeps the Anno 1800 mod loader installed") + `

annoload finds your Anno 1800 installation (Ubisoft Connect, Steam or a
configured path), checks whether the community mod loader is present next
to the game executable and, when it is missing, downloads the newest
release and installs it.

` + SubtitleStyle.Render("Examples:") + `
  annoload activate              Discover the game and provision the loader
  annoload status                Show the discovered path and loader state
  annoload releases              List published loader releases
  annoload install loader.zip    Install a downloaded archive
  annoload config init           Create a default configuration file`,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&app.flags.configPath, "config", "", "config file (default is "+defaultConfigHint()+", or $"+config.EnvConfigFile+")")
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&app.flags.gamePath, "game-path", "", "game installation directory (overrides game.path)")

	rootCmd.AddCommand(
		newActivateCommand(app),
		newStatusCommand(app),
		newReleasesCommand(app),
		newClassifyCommand(app),
		newInstallCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

func defaultConfigHint() string {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "config.cue in the user config directory"
	}
	return path
}

// Execute builds the App and runs the root command. It is called by
// main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// handleError prints a command failure. Service errors get their catalog
// help text; actionable errors get their suggestions.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(a.flags.verbose))
	} else {
		fang.DefaultErrorHandler(w, styles, err)
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(w, svcErr)
	}
}
