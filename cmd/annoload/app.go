// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/annoload/annoload/internal/config"
	"github.com/annoload/annoload/internal/issue"
	"github.com/annoload/annoload/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and builds
	// its per-invocation session through it.
	App struct {
		Config     config.Provider
		HTTPClient *http.Client
		DataDir    string
		stdin      io.Reader
		stdout     io.Writer
		stderr     io.Writer
		flags      rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// HTTPClient is shared by the catalog client and the download
		// manager. Nil uses per-component clients with the configured timeout.
		HTTPClient *http.Client
		// DataDir holds the state file and default download directory.
		// Empty means config.DataDir().
		DataDir string
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
	}

	rootFlags struct {
		configPath string
		verbose    bool
		gamePath   string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:     deps.Config,
		HTTPClient: deps.HTTPClient,
		DataDir:    deps.DataDir,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}, nil
}

// configFilePath returns the explicit config file: the --config flag, then
// $ANNOLOAD_CONFIG. Empty means the platform default location.
func (a *App) configFilePath() string {
	if a.flags.configPath != "" {
		return a.flags.configPath
	}
	return os.Getenv(config.EnvConfigFile)
}

// loadConfig loads configuration through the App's provider. Failures are
// reported with the config issue entry and a usage exit code.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configFilePath()})
	if err != nil {
		return nil, &ExitError{
			Code: types.ExitUsage,
			Err:  newServiceError(err, issue.ConfigLoadFailedId, ""),
		}
	}
	return cfg, nil
}

func (a *App) dataDir() (string, error) {
	if a.DataDir != "" {
		return a.DataDir, nil
	}
	return config.DataDir()
}
