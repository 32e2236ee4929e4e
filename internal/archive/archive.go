// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/annoload/annoload/internal/platform"
)

// maxEntryBytes bounds a single extracted entry (1 GB).
const maxEntryBytes = 1 << 30

var (
	// ErrUnsafePath is returned when an entry would be written outside the target.
	ErrUnsafePath = errors.New("archive entry escapes install target")
	// ErrEntryNotFound is returned when a copy names an entry the archive lacks.
	ErrEntryNotFound = errors.New("archive entry not found")
)

// Copy places archive entry Source at Destination relative to the target root.
type Copy struct {
	Source      string
	Destination string
}

// List returns the archive's entry names in archive order. Directory entries
// keep their trailing slash.
func List(path string) ([]string, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }() // read-only

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// Extract writes the requested entries below root and returns the number of
// files written. Directory entries are created but not counted.
func Extract(ctx context.Context, path, root string, copies []Copy) (int, error) {
	r, err := open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Close() }() // read-only

	entries := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		entries[f.Name] = f
	}

	written := 0
	for _, c := range copies {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		f, ok := entries[c.Source]
		if !ok {
			return written, fmt.Errorf("%w: %s", ErrEntryNotFound, c.Source)
		}
		dest, err := SafeJoin(root, c.Destination)
		if err != nil {
			return written, err
		}

		if f.FileInfo().IsDir() || strings.HasSuffix(c.Source, "/") {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return written, fmt.Errorf("creating directory %s: %w", dest, err)
			}
			continue
		}
		if err := extractFile(f, dest); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// open tolerates zip.ErrInsecurePath; entry names are checked by SafeJoin
// when they are written.
func open(path string) (*zip.ReadCloser, error) {
	r, err := zip.OpenReader(path)
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && r != nil) {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	return r, nil
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer func() { _ = src.Close() }() // read-only

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	n, copyErr := io.Copy(out, io.LimitReader(src, maxEntryBytes+1))
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("extracting %s: %w", f.Name, copyErr)
	}
	if n > maxEntryBytes {
		return fmt.Errorf("extracting %s: entry exceeds %d bytes", f.Name, maxEntryBytes)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", dest, closeErr)
	}
	return nil
}

// SafeJoin joins an archive-relative path onto root, accepting either
// separator. It rejects results outside root and Windows device names.
func SafeJoin(root, rel string) (string, error) {
	rel = strings.ReplaceAll(rel, `\`, "/")
	if strings.HasPrefix(rel, "/") || filepath.IsAbs(filepath.FromSlash(rel)) || filepath.VolumeName(filepath.FromSlash(rel)) != "" {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, rel)
	}

	if part, ok := platform.ReservedComponent(rel); ok {
		return "", fmt.Errorf("%w: %s uses the reserved name %q", ErrUnsafePath, rel, part)
	}

	joined := filepath.Join(root, filepath.FromSlash(rel))
	within, err := filepath.Rel(root, joined)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, rel)
	}
	return joined, nil
}
