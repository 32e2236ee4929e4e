// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/annoload/annoload/internal/game"
)

func TestIsProvisioned_BecomesTrueAfterBackupCreated(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	checker := NewPresenceChecker(game.Anno1800().Loader, nil)

	if checker.IsProvisioned(context.Background(), root) {
		t.Fatal("expected not provisioned before backup library exists")
	}

	if err := os.WriteFile(filepath.Join(root, "python35_ubi.dll"), []byte("MZ"), 0o644); err != nil {
		t.Fatalf("writing backup library: %v", err)
	}

	if !checker.IsProvisioned(context.Background(), root) {
		t.Fatal("expected provisioned after backup library was created")
	}
}

func TestIsProvisioned_PrimaryAloneIsNotEnough(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "python35.dll"), []byte("MZ"), 0o644); err != nil {
		t.Fatalf("writing primary library: %v", err)
	}

	checker := NewPresenceChecker(game.Anno1800().Loader, nil)
	if checker.IsProvisioned(context.Background(), root) {
		t.Fatal("primary library alone must not count as provisioned")
	}
}

func TestIsProvisioned_StatErrorsAreAbsorbed(t *testing.T) {
	t.Parallel()

	var statted string
	stat := func(path string) (fs.FileInfo, error) {
		statted = path
		return nil, fs.ErrPermission
	}
	checker := NewPresenceChecker(game.Anno1800().Loader, stat)

	if checker.IsProvisioned(context.Background(), "/games/anno/Bin/Win64") {
		t.Fatal("expected false on stat error")
	}
	if want := filepath.Join("/games/anno/Bin/Win64", "python35_ubi.dll"); statted != want {
		t.Errorf("stat path = %q, want %q", statted, want)
	}
}

func TestIsProvisioned_CanceledContext(t *testing.T) {
	t.Parallel()

	called := false
	stat := func(string) (fs.FileInfo, error) {
		called = true
		return nil, errors.New("unreachable")
	}
	checker := NewPresenceChecker(game.Anno1800().Loader, stat)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if checker.IsProvisioned(ctx, t.TempDir()) {
		t.Fatal("expected false for canceled context")
	}
	if called {
		t.Error("stat must not run after cancellation")
	}
}
