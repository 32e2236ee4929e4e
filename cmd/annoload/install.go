// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type installParams struct {
	Archive string
	DryRun  bool
}

// newInstallCommand creates the `annoload install` command.
func newInstallCommand(app *App) *cobra.Command {
	var params installParams

	cmd := &cobra.Command{
		Use:   "install <archive>",
		Short: "Install a downloaded archive into the game",
		Long: `Install a zip archive for Anno 1800.

The registered installers are asked in priority order whether they accept
the archive's file list. The mod loader package goes next to the game
executable; anything else goes to the game's mod folder.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Archive = args[0]
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}
			return runInstall(cmd.Context(), app, s, params)
		},
	}

	cmd.Flags().BoolVar(&params.DryRun, "dry-run", false, "print the install plan without writing files")
	return cmd
}

func runInstall(ctx context.Context, app *App, s *session, params installParams) error {
	if _, err := s.host.Discover(ctx, s.game.ID); err != nil {
		return classifyHostError(err, operation("discover game", s.game.Name))
	}

	if params.DryRun {
		plan, err := s.host.PlanArchive(ctx, s.game.ID, params.Archive)
		if err != nil {
			return classifyHostError(err, operation("plan archive install", params.Archive))
		}
		fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render("Installer:"), plan.Installer)
		fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render("Target:"), plan.Target)
		printInstructions(app, plan.Instructions)
		return nil
	}

	rec, err := s.host.InstallArchive(ctx, s.game.ID, params.Archive)
	if err != nil {
		return classifyHostError(err, operation("install archive", params.Archive))
	}
	fmt.Fprintf(app.stdout, "%s Installed %d file(s) into %s\n", SuccessStyle.Render("✓"), rec.Files, rec.Target)
	return nil
}
