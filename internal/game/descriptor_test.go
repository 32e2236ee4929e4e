// SPDX-License-Identifier: MPL-2.0

package game

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAnno1800Descriptor(t *testing.T) {
	t.Parallel()

	d := Anno1800()

	if d.ID != "anno1800" {
		t.Errorf("ID = %q, want %q", d.ID, "anno1800")
	}
	if len(d.StoreIDs) != 2 || d.StoreIDs[0] != UplayAppID || d.StoreIDs[1] != SteamAppID {
		t.Errorf("StoreIDs = %v, want [%s %s]", d.StoreIDs, UplayAppID, SteamAppID)
	}
	if d.Loader.PrimaryLibrary != "python35.dll" || d.Loader.BackupLibrary != "python35_ubi.dll" {
		t.Errorf("unexpected loader marker: %+v", d.Loader)
	}
	if d.ModFolderName != "mods" {
		t.Errorf("ModFolderName = %q, want mods", d.ModFolderName)
	}
}

func TestAnno1800ReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	a := Anno1800()
	a.StoreIDs[0] = "mutated"

	if b := Anno1800(); b.StoreIDs[0] != UplayAppID {
		t.Fatalf("descriptor shared state across calls: %v", b.StoreIDs)
	}
}

func TestLoaderFolderPath(t *testing.T) {
	t.Parallel()

	d := Anno1800()
	root := filepath.Join(t.TempDir(), "Anno 1800")

	got, err := d.LoaderFolderPath(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(root, "Bin", "Win64")
	if got != want {
		t.Errorf("LoaderFolderPath = %q, want %q", got, want)
	}
}

func TestLoaderFolderPath_MissingDiscovery(t *testing.T) {
	t.Parallel()

	d := Anno1800()
	for _, root := range []string{"", "   "} {
		_, err := d.LoaderFolderPath(root)
		if err == nil {
			t.Fatalf("LoaderFolderPath(%q) succeeded, want contract violation", root)
		}
		if !errors.Is(err, ErrContractViolation) {
			t.Errorf("error %v does not wrap ErrContractViolation", err)
		}
		var cv *ContractViolationError
		if !errors.As(err, &cv) || cv.GameID != ID {
			t.Errorf("expected ContractViolationError for %q, got %#v", ID, err)
		}
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	d := Anno1800()
	tests := []struct {
		gameID string
		want   bool
	}{
		{"anno1800", true},
		{"Anno1800", false},
		{"skyrim", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := d.Matches(tt.gameID); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.gameID, got, tt.want)
		}
	}
}
