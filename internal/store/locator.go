// SPDX-License-Identifier: MPL-2.0

package store

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"
)

// ErrGameNotFound is returned when no configured source yields an
// installation containing the required file.
var ErrGameNotFound = errors.New("game installation not found")

type (
	// GameNotFoundError reports the app ids that were searched.
	// It wraps ErrGameNotFound for errors.Is() compatibility.
	GameNotFoundError struct {
		AppIDs []string
	}

	// Locator resolves a game's installation root. Sources are consulted in
	// this order: explicit path, then for each app id the Steam libraries and
	// the Ubisoft Connect registry, then the search paths.
	Locator struct {
		explicitPath   string
		steamLibraries []string
		searchPaths    []string
		requiredFile   string
		stat           func(string) (fs.FileInfo, error)
		readFile       func(string) ([]byte, error)
		uplayLookup    func(appID string) (string, bool)
		logger         *slog.Logger
	}

	// Option configures a Locator.
	Option func(*Locator)
)

// WithExplicitPath pins the installation root. When set, no other source is
// consulted.
func WithExplicitPath(path string) Option {
	return func(l *Locator) {
		l.explicitPath = path
	}
}

// WithSteamLibraries sets the Steam library roots (the directories that
// contain "steamapps").
func WithSteamLibraries(paths ...string) Option {
	return func(l *Locator) {
		l.steamLibraries = append(l.steamLibraries, paths...)
	}
}

// WithSearchPaths sets directories probed directly as installation roots.
func WithSearchPaths(paths ...string) Option {
	return func(l *Locator) {
		l.searchPaths = append(l.searchPaths, paths...)
	}
}

// WithRequiredFile sets the root-relative file a candidate must contain,
// typically the game executable.
func WithRequiredFile(rel string) Option {
	return func(l *Locator) {
		l.requiredFile = rel
	}
}

// WithFS replaces the filesystem accessors. Intended for tests.
func WithFS(stat func(string) (fs.FileInfo, error), readFile func(string) ([]byte, error)) Option {
	return func(l *Locator) {
		l.stat = stat
		l.readFile = readFile
	}
}

// WithUplayLookup replaces the Ubisoft Connect registry lookup. A nil
// function disables it.
func WithUplayLookup(fn func(appID string) (string, bool)) Option {
	return func(l *Locator) {
		l.uplayLookup = fn
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

// NewLocator creates a Locator.
func NewLocator(opts ...Option) *Locator {
	l := &Locator{
		stat:        os.Stat,
		readFile:    os.ReadFile,
		uplayLookup: uplayInstallDir,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FindByAppID returns the first installation root found for appIDs.
func (l *Locator) FindByAppID(ctx context.Context, appIDs []string) (string, error) {
	if l.explicitPath != "" {
		if !l.accepts(l.explicitPath) {
			return "", fmt.Errorf("configured game path %s does not contain %s: %w", l.explicitPath, l.requiredFile, ErrGameNotFound)
		}
		return filepath.Clean(l.explicitPath), nil
	}

	for _, id := range appIDs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if root, ok := l.fromSteam(id); ok {
			l.logger.Debug("found game in steam library", "app_id", id, "path", root)
			return root, nil
		}
		if root, ok := l.fromUplay(id); ok {
			l.logger.Debug("found game via ubisoft connect", "app_id", id, "path", root)
			return root, nil
		}
	}

	for _, root := range l.searchPaths {
		if l.accepts(root) {
			l.logger.Debug("found game in search path", "path", root)
			return filepath.Clean(root), nil
		}
	}

	return "", &GameNotFoundError{AppIDs: appIDs}
}

func (l *Locator) fromSteam(appID string) (string, bool) {
	for _, lib := range l.libraries() {
		manifest := filepath.Join(lib, "steamapps", "appmanifest_"+appID+".acf")
		data, err := l.readFile(manifest)
		if err != nil {
			continue
		}
		dir, ok := ParseInstallDir(data)
		if !ok {
			l.logger.Warn("steam manifest has no installdir", "manifest", manifest)
			continue
		}
		root := filepath.Join(lib, "steamapps", "common", dir)
		if l.accepts(root) {
			return root, true
		}
	}
	return "", false
}

// libraries returns the configured Steam libraries followed by the extra
// libraries each one lists in steamapps/libraryfolders.vdf, without duplicates.
func (l *Locator) libraries() []string {
	seen := make(map[string]bool)
	var libs []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			libs = append(libs, p)
		}
	}

	for _, lib := range l.steamLibraries {
		add(lib)
	}
	for _, lib := range l.steamLibraries {
		data, err := l.readFile(filepath.Join(lib, "steamapps", "libraryfolders.vdf"))
		if err != nil {
			continue
		}
		for _, extra := range ParseLibraryFolders(data) {
			add(extra)
		}
	}
	return libs
}

func (l *Locator) fromUplay(appID string) (string, bool) {
	if l.uplayLookup == nil {
		return "", false
	}
	root, ok := l.uplayLookup(appID)
	if !ok || !l.accepts(root) {
		return "", false
	}
	return filepath.Clean(root), true
}

func (l *Locator) accepts(root string) bool {
	if strings.TrimSpace(root) == "" {
		return false
	}
	if l.requiredFile == "" {
		info, err := l.stat(root)
		return err == nil && info.IsDir()
	}
	_, err := l.stat(filepath.Join(root, filepath.FromSlash(l.requiredFile)))
	return err == nil
}

// ParseInstallDir extracts the install directory name from a Steam
// appmanifest file.
func ParseInstallDir(manifest []byte) (string, bool) {
	doc, err := vdf.NewParser(bytes.NewReader(manifest)).Parse()
	if err != nil {
		return "", false
	}
	state := doc
	if nested, ok := lookupKey(doc, "AppState").(map[string]any); ok {
		state = nested
	}
	dir, _ := lookupKey(state, "installdir").(string)
	dir = strings.TrimSpace(dir)
	return dir, dir != ""
}

// ParseLibraryFolders returns the library roots listed in a Steam
// libraryfolders.vdf file, in index order. Both the current layout (one block
// per library with a "path" key) and the older flat "<n>" "<path>" layout are
// understood.
func ParseLibraryFolders(data []byte) []string {
	doc, err := vdf.NewParser(bytes.NewReader(data)).Parse()
	if err != nil {
		return nil
	}
	folders, ok := lookupKey(doc, "libraryfolders").(map[string]any)
	if !ok {
		return nil
	}

	keys := slices.SortedFunc(maps.Keys(folders), func(a, b string) int {
		return cmp.Or(cmp.Compare(len(a), len(b)), strings.Compare(a, b))
	})

	var paths []string
	for _, k := range keys {
		if _, err := strconv.Atoi(k); err != nil {
			continue
		}
		var p string
		switch v := folders[k].(type) {
		case map[string]any:
			p, _ = lookupKey(v, "path").(string)
		case string:
			p = v
		}
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// lookupKey finds key in m, falling back to a case-insensitive match since
// Steam is not consistent about key casing.
func lookupKey(m map[string]any, key string) any {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

// Error implements the error interface for GameNotFoundError.
func (e *GameNotFoundError) Error() string {
	return fmt.Sprintf("game installation not found (app ids: %s)", strings.Join(e.AppIDs, ", "))
}

// Unwrap returns ErrGameNotFound for errors.Is() compatibility.
func (e *GameNotFoundError) Unwrap() error { return ErrGameNotFound }
