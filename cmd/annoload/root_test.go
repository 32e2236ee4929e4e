// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"slices"
	"testing"

	"github.com/annoload/annoload/internal/catalog"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
		if got := userAgent(); got != "annoload/v1.2.3" {
			t.Errorf("userAgent() = %q", got)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestRootCommandTree(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	root := NewRootCommand(app)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"activate", "status", "releases", "classify", "install", "config", "version"} {
		if !slices.Contains(names, want) {
			t.Errorf("root command lacks %q (have %v)", want, names)
		}
	}
	for _, flag := range []string{"config", "verbose", "game-path"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestSortReleases(t *testing.T) {
	t.Parallel()

	releases := []catalog.Release{
		{TagName: "latest-build"},
		{TagName: "v0.9.4"},
		{TagName: "v1.0.0"},
		{TagName: "0.9.10"},
		{TagName: "v1.0.0-beta.2"},
		{TagName: "other"},
	}
	sortReleases(releases)

	var got []string
	for _, r := range releases {
		got = append(got, r.TagName)
	}
	want := []string{"v1.0.0", "v1.0.0-beta.2", "0.9.10", "v0.9.4", "latest-build", "other"}
	if !slices.Equal(got, want) {
		t.Errorf("sortReleases() = %v, want %v", got, want)
	}
}
