// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/annoload/annoload/internal/loader"
)

// recentLimit bounds the download and install history printed by status.
const recentLimit = 5

// newStatusCommand creates the `annoload status` command.
func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the discovered game path and mod loader state",
		Long: `Show what annoload knows without changing anything: the recorded game
path, whether the mod loader is present, and recent downloads and installs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}
			return runStatus(cmd.Context(), app, s)
		},
	}
}

func runStatus(ctx context.Context, app *App, s *session) error {
	out := app.stdout
	fmt.Fprintln(out, TitleStyle.Render(s.game.Name))
	fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("State file"), s.state.Path())

	folder, ok := s.loaderFolder()
	if !ok {
		fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("Game path"), SubtitleStyle.Render("(not discovered, run 'annoload activate')"))
	} else {
		root, _ := s.state.DiscoveredPath(s.game.ID)
		fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("Game path"), root)

		presence := loader.NewPresenceChecker(s.game.Loader, nil)
		if presence.IsProvisioned(ctx, folder) {
			fmt.Fprintf(out, "%s: %s (%s)\n", CmdStyle.Render("Mod loader"), SuccessStyle.Render("installed"), presence.MarkerPath(folder))
		} else {
			fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("Mod loader"), WarningStyle.Render("missing"))
		}
	}

	snap := s.state.Snapshot()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", CmdStyle.Render("Recent downloads"))
	if len(snap.Downloads) == 0 {
		fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, rec := range lastN(snap.Downloads, recentLimit) {
		fmt.Fprintf(out, "  %s  %s\n", formatTime(rec.CompletedAt), filepath.Base(rec.Path))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", CmdStyle.Render("Recent installs"))
	if len(snap.Installs) == 0 {
		fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, rec := range lastN(snap.Installs, recentLimit) {
		fmt.Fprintf(out, "  %s  %s -> %s (%d files)\n", formatTime(rec.InstalledAt), filepath.Base(rec.Archive), rec.Target, rec.Files)
	}
	return nil
}

// lastN returns the newest n records, newest first.
func lastN[T any](records []T, n int) []T {
	if len(records) > n {
		records = records[len(records)-n:]
	}
	out := make([]T, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
	}
	return out
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
