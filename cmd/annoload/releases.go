// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/annoload/annoload/internal/catalog"
)

type releasesParams struct {
	Limit int
	All   bool
}

// newReleasesCommand creates the `annoload releases` command.
func newReleasesCommand(app *App) *cobra.Command {
	var params releasesParams

	cmd := &cobra.Command{
		Use:   "releases",
		Short: "List published mod loader releases",
		Long: `List the mod loader releases the catalog publishes, highest version
first. The release activation would install is marked "latest".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}
			return runReleases(cmd.Context(), app, s, params)
		},
	}

	cmd.Flags().IntVarP(&params.Limit, "limit", "n", 10, "maximum number of releases to show (0 shows all)")
	cmd.Flags().BoolVar(&params.All, "all", false, "include drafts and prereleases")
	return cmd
}

func runReleases(ctx context.Context, app *App, s *session, params releasesParams) error {
	releases, err := s.catalog.ListReleases(ctx)
	if err != nil {
		return classifyCatalogError(err, operation("list releases", s.catalog.BaseURL()))
	}
	if len(releases) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("No releases published."))
		return nil
	}

	// Activation takes the catalog's first entry regardless of version order.
	latestTag := releases[0].TagName

	shown := slices.DeleteFunc(slices.Clone(releases), func(r catalog.Release) bool {
		return !params.All && (r.Draft || r.Prerelease)
	})
	sortReleases(shown)
	if params.Limit > 0 && len(shown) > params.Limit {
		shown = shown[:params.Limit]
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Releases of "+s.catalog.BaseURL()))
	for _, r := range shown {
		line := "  " + CmdStyle.Render(r.TagName)
		if r.Name != "" && r.Name != r.TagName {
			line += " " + r.Name
		}
		var marks []string
		if r.TagName == latestTag {
			marks = append(marks, SuccessStyle.Render("latest"))
		}
		if r.Prerelease {
			marks = append(marks, WarningStyle.Render("prerelease"))
		}
		if r.Draft {
			marks = append(marks, WarningStyle.Render("draft"))
		}
		if len(marks) > 0 {
			line += " (" + strings.Join(marks, ", ") + ")"
		}
		fmt.Fprintln(app.stdout, line)
	}
	return nil
}

// sortReleases orders releases by semantic version, highest first. Tags
// that are not versions keep catalog order after all versioned tags.
func sortReleases(releases []catalog.Release) {
	slices.SortStableFunc(releases, func(a, b catalog.Release) int {
		return semver.Compare(canonicalTag(b.TagName), canonicalTag(a.TagName))
	})
}

func canonicalTag(tag string) string {
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}
	return semver.Canonical(tag)
}
