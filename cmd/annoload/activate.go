// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/annoload/annoload/internal/game"
	"github.com/annoload/annoload/internal/loader"
)

// newActivateCommand creates the `annoload activate` command.
func newActivateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate",
		Short: "Discover the game and make sure the mod loader is installed",
		Long: `Activate Anno 1800 the way a mod manager does when you switch to it.

The game is discovered (a pinned path, Steam libraries, Ubisoft Connect,
then search paths) and every activation subscriber runs. When the mod
loader is missing from the game's Bin/Win64 folder its newest release is
downloaded and, with downloads.auto_install, installed there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}
			return runActivate(cmd.Context(), app, s)
		},
	}
}

func runActivate(ctx context.Context, app *App, s *session) error {
	activateErr := s.host.ActivateGame(ctx, s.game.ID)
	if waitErr := s.downloads.Wait(ctx); waitErr != nil {
		return fmt.Errorf("waiting for downloads: %w", waitErr)
	}
	if activateErr != nil {
		return classifyHostError(activateErr, operation("activate game", s.game.Name))
	}

	folder, ok := s.loaderFolder()
	if !ok {
		return classifyHostError(&game.ContractViolationError{GameID: s.game.ID, Detail: "activation finished without a discovered path"},
			operation("activate game", s.game.Name))
	}

	presence := loader.NewPresenceChecker(s.game.Loader, nil)
	outcome := s.resolver.outcome()
	if presence.IsProvisioned(ctx, folder) {
		if outcome.ran {
			fmt.Fprintf(app.stdout, "%s Mod loader %s installed in %s\n",
				SuccessStyle.Render("✓"), CmdStyle.Render(outcome.asset.ReleaseTag), folder)
		} else {
			fmt.Fprintf(app.stdout, "%s Mod loader already installed in %s\n", SuccessStyle.Render("✓"), folder)
		}
		return nil
	}

	if outcome.err != nil {
		return classifyCatalogError(outcome.err, operation("resolve mod loader release", s.catalog.BaseURL()))
	}

	for _, res := range s.downloads.Results() {
		if res.Err != nil {
			return classifyDownloadError(res.Err, operation("download mod loader", res.URL))
		}
		if !s.cfg.Downloads.AutoInstall {
			fmt.Fprintf(app.stdout, "%s Mod loader downloaded to %s\n", SuccessStyle.Render("✓"), res.Path)
			fmt.Fprintf(app.stdout, "  Install it with: %s\n", CmdStyle.Render("annoload install "+quoteArg(res.Path)))
			return nil
		}
	}

	return errors.New("mod loader is still missing from " + folder + "; see the log above")
}

// quoteArg quotes p for display when it contains spaces.
func quoteArg(p string) string {
	p = filepath.Clean(p)
	if strings.ContainsRune(p, ' ') {
		return fmt.Sprintf("%q", p)
	}
	return p
}
