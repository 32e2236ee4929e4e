// SPDX-License-Identifier: MPL-2.0

package appstate

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the default state file name inside the data directory.
const FileName = "state.toml"

type (
	// Discovery records where a game was found.
	Discovery struct {
		Path         string    `toml:"path"`
		DiscoveredAt time.Time `toml:"discovered_at"`
	}

	// DownloadRecord records a finished download.
	DownloadRecord struct {
		ID          string    `toml:"id"`
		URL         string    `toml:"url"`
		GameID      string    `toml:"game_id"`
		Path        string    `toml:"path"`
		Skipped     bool      `toml:"skipped,omitempty"`
		CompletedAt time.Time `toml:"completed_at"`
	}

	// InstallRecord records an archive installed by the host engine.
	InstallRecord struct {
		GameID      string    `toml:"game_id"`
		Archive     string    `toml:"archive"`
		Installer   string    `toml:"installer"`
		ModType     string    `toml:"mod_type,omitempty"`
		Target      string    `toml:"target"`
		Files       int       `toml:"files"`
		InstalledAt time.Time `toml:"installed_at"`
	}

	// State is the persisted document.
	State struct {
		Discovered map[string]Discovery `toml:"discovered"`
		Downloads  []DownloadRecord     `toml:"downloads"`
		Installs   []InstallRecord      `toml:"installs"`
	}

	// Store guards the State and writes it back to disk on every mutation.
	Store struct {
		mu    sync.Mutex
		path  string
		state State
		now   func() time.Time
	}
)

// Open loads the state file at path. A missing file yields an empty state;
// the file is created on the first mutation.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading state file: %w", err)
	default:
		if err := toml.Unmarshal(data, &s.state); err != nil {
			return nil, fmt.Errorf("parsing state file %s: %w", path, err)
		}
	}

	if s.state.Discovered == nil {
		s.state.Discovered = make(map[string]Discovery)
	}
	return s, nil
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// DiscoveredPath returns the recorded installation path for gameID.
func (s *Store) DiscoveredPath(gameID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.state.Discovered[gameID]
	if !ok || d.Path == "" {
		return "", false
	}
	return d.Path, true
}

// SetDiscovered records path as gameID's installation.
func (s *Store) SetDiscovered(gameID, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Discovered[gameID] = Discovery{Path: path, DiscoveredAt: s.now().UTC()}
	return s.saveLocked()
}

// ForgetDiscovered removes gameID's recorded installation.
func (s *Store) ForgetDiscovered(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Discovered[gameID]; !ok {
		return nil
	}
	delete(s.state.Discovered, gameID)
	return s.saveLocked()
}

// RecordDownload appends a finished download.
func (s *Store) RecordDownload(rec DownloadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = s.now().UTC()
	}
	s.state.Downloads = append(s.state.Downloads, rec)
	return s.saveLocked()
}

// RecordInstall appends an installed archive.
func (s *Store) RecordInstall(rec InstallRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.InstalledAt.IsZero() {
		rec.InstalledAt = s.now().UTC()
	}
	s.state.Installs = append(s.state.Installs, rec)
	return s.saveLocked()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Discovered: maps.Clone(s.state.Discovered),
		Downloads:  slices.Clone(s.state.Downloads),
		Installs:   slices.Clone(s.state.Installs),
	}
}

// saveLocked writes the state through a temp file and rename so a crash
// never leaves a truncated document. Callers hold s.mu.
func (s *Store) saveLocked() error {
	data, err := toml.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
