// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annoload/annoload/internal/game"
)

// LoaderLibraries are the entry names of a mod loader package.
var LoaderLibraries = []string{"python35.dll", "python35_ubi.dll"}

// MustZip builds a zip archive holding entries in order. Names ending in
// "/" become directory entries; every other entry contains "payload <name>".
func MustZip(t testing.TB, entries ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("adding %s to zip: %v", name, err)
		}
		if strings.HasSuffix(name, "/") {
			continue
		}
		if _, err := w.Write([]byte("payload " + name)); err != nil {
			t.Fatalf("writing %s to zip: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	return buf.Bytes()
}

// MustWriteZip writes MustZip(entries...) to path and returns path.
func MustWriteZip(t testing.TB, path string, entries ...string) string {
	t.Helper()

	MustWriteFile(t, path, MustZip(t, entries...))
	return path
}

// MustWriteFile writes data to path, creating parent directories.
func MustWriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// MustMakeTree creates a temporary directory containing an empty file for
// each slash-separated relative path and returns the directory.
func MustMakeTree(t testing.TB, files ...string) string {
	t.Helper()

	root := t.TempDir()
	for _, f := range files {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(f)), nil)
	}
	return root
}

// MustFakeGame creates an Anno 1800 installation root holding the game
// executable plus extra files, given relative to the executable's folder.
func MustFakeGame(t testing.TB, extra ...string) string {
	t.Helper()

	d := game.Anno1800()
	root := MustMakeTree(t, filepath.ToSlash(d.ExecutableRelPath))
	binDir := filepath.Dir(d.ExecutablePath(root))
	for _, f := range extra {
		MustWriteFile(t, filepath.Join(binDir, filepath.FromSlash(f)), nil)
	}
	return root
}
