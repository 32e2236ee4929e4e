// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestIdConstants(t *testing.T) {
	t.Parallel()

	ids := []Id{
		GameNotFoundId,
		CatalogUnavailableId,
		RateLimitedId,
		ArchiveNotSupportedId,
		ConfigLoadFailedId,
		PermissionDeniedId,
		GameNotDiscoveredId,
		DownloadFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}

	if GameNotFoundId != 1 {
		t.Errorf("GameNotFoundId = %d, want 1", GameNotFoundId)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{GameNotFoundId, false, "installation not found"},
		{CatalogUnavailableId, false, "release catalog"},
		{RateLimitedId, false, "GITHUB_TOKEN"},
		{ArchiveNotSupportedId, false, "python35_ubi.dll"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{PermissionDeniedId, false, "Permission denied"},
		{GameNotDiscoveredId, false, "before it was discovered"},
		{DownloadFailedId, false, "download failed"},
		{Id(9999), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			t.Parallel()

			entry := Get(tt.id)
			if tt.wantNil {
				if entry != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}
			if entry == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if !strings.Contains(string(entry.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestLinksAreCloned(t *testing.T) {
	t.Parallel()

	entry := Get(RateLimitedId)
	links := entry.ExtLinks()
	if len(links) == 0 {
		t.Fatal("expected external links")
	}
	original := links[0]
	links[0] = "modified"
	if entry.ExtLinks()[0] != original {
		t.Error("ExtLinks() should return a clone")
	}
}

//nolint:paralleltest // swaps the package-level renderer
func TestRender(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	rendered, err := Get(CatalogUnavailableId).Render("dark")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.Contains(rendered, "## See also") || !strings.Contains(rendered, "xforce/anno1800-mod-loader") {
		t.Errorf("rendered output missing links section:\n%s", rendered)
	}

	rendered, _ = Get(ConfigLoadFailedId).Render("dark")
	if strings.Contains(rendered, "See also") {
		t.Error("entry without links should not render a links section")
	}
}

func TestValuesOrdered(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d entries, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered at %d", i)
		}
	}
}
