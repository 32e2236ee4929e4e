// SPDX-License-Identifier: MPL-2.0

package standalone

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/annoload/annoload/internal/download"
	"github.com/annoload/annoload/internal/host"
	"github.com/annoload/annoload/internal/testutil"
)

// registerCopyAll registers game "g" discovered at root and an installer that
// copies every entry, optionally selecting modType.
func registerCopyAll(t *testing.T, h *Host, root, modType string) {
	t.Helper()

	if err := h.RegisterGame(host.GameRegistration{
		ID:           "g",
		QueryPath:    func(context.Context) (string, error) { return root, nil },
		QueryModPath: func(string) string { return "mods" },
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Discover(context.Background(), "g"); err != nil {
		t.Fatal(err)
	}
	err := h.RegisterInstaller(host.Installer{
		Name: "copy-all",
		Test: func(context.Context, []string, string) (host.SupportedResult, error) {
			return host.SupportedResult{Supported: true}, nil
		},
		Install: func(_ context.Context, files []string) ([]host.Instruction, error) {
			var out []host.Instruction
			for _, f := range files {
				out = append(out, host.CopyInstruction(f, f))
			}
			if modType != "" {
				out = append(out, host.SetModTypeInstruction(modType))
			}
			return out, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestInstallArchiveDefaultTarget(t *testing.T) {
	t.Parallel()

	h, st := newTestHost(t)
	root := testutil.MustMakeTree(t)
	registerCopyAll(t, h, root, "")

	archivePath := testutil.MustWriteZip(t, filepath.Join(t.TempDir(), "cool-mod.zip"), "data/a.txt")

	rec, err := h.InstallArchive(context.Background(), "g", archivePath)
	if err != nil {
		t.Fatalf("InstallArchive: %v", err)
	}
	wantTarget := filepath.Join(root, "mods", "cool-mod")
	if rec.Target != wantTarget || rec.Files != 1 || rec.Installer != "copy-all" {
		t.Errorf("record = %+v", rec)
	}
	if _, err := os.Stat(filepath.Join(wantTarget, "data", "a.txt")); err != nil {
		t.Errorf("installed file missing: %v", err)
	}
	if got := st.Snapshot().Installs; len(got) != 1 {
		t.Errorf("install records = %d, want 1", len(got))
	}
}

func TestInstallArchiveModTypeTarget(t *testing.T) {
	t.Parallel()

	h, _ := newTestHost(t)
	root := testutil.MustMakeTree(t)
	special := filepath.Join(root, "special")
	registerCopyAll(t, h, root, "special-type")
	if err := h.RegisterModType(host.ModType{
		Name:        "special-type",
		IsSupported: func(gameID string) bool { return gameID == "g" },
		TargetPath:  func() (string, error) { return special, nil },
	}); err != nil {
		t.Fatal(err)
	}

	archivePath := testutil.MustWriteZip(t, filepath.Join(t.TempDir(), "x.zip"), "lib.dll")

	rec, err := h.InstallArchive(context.Background(), "g", archivePath)
	if err != nil {
		t.Fatalf("InstallArchive: %v", err)
	}
	if rec.ModType != "special-type" || rec.Target != special {
		t.Errorf("record = %+v", rec)
	}
	if _, err := os.Stat(filepath.Join(special, "lib.dll")); err != nil {
		t.Errorf("installed file missing: %v", err)
	}
}

func TestPlanArchiveUnknownModType(t *testing.T) {
	t.Parallel()

	h, _ := newTestHost(t)
	registerCopyAll(t, h, testutil.MustMakeTree(t), "missing-type")

	archivePath := testutil.MustWriteZip(t, filepath.Join(t.TempDir(), "x.zip"), "lib.dll")

	if _, err := h.PlanArchive(context.Background(), "g", archivePath); !errors.Is(err, ErrUnknownModType) {
		t.Errorf("got %v, want ErrUnknownModType", err)
	}
}

func TestHandleDownloadCompleteIgnoresFailures(t *testing.T) {
	t.Parallel()

	h, st := newTestHost(t)
	registerCopyAll(t, h, testutil.MustMakeTree(t), "")

	h.HandleDownloadComplete(context.Background(), download.Result{GameID: "g", Path: "x.zip", Err: errors.New("404")})
	h.HandleDownloadComplete(context.Background(), download.Result{Path: "x.zip"})

	if got := st.Snapshot().Installs; len(got) != 0 {
		t.Errorf("install records = %d, want 0", len(got))
	}
}
