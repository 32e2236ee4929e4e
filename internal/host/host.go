// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const (
	// EventGameModeActivated is emitted when a game becomes the active game context.
	EventGameModeActivated = "gamemode-activated"

	// ReplaceAlways overwrites an existing download with the same name.
	ReplaceAlways ReplacePolicy = "always"
	// ReplaceNever keeps an existing download and skips the fetch.
	ReplaceNever ReplacePolicy = "never"
	// ReplaceAsk defers the decision to the host UI. Hosts without UI treat it as ReplaceNever.
	ReplaceAsk ReplacePolicy = "ask"
)

// ErrInvalidReplacePolicy is returned when a ReplacePolicy value is not recognized.
var ErrInvalidReplacePolicy = errors.New("invalid replace policy")

type (
	// ReplacePolicy tells the download manager what to do when the destination already exists.
	ReplacePolicy string

	// InvalidReplacePolicyError is returned when a ReplacePolicy value is not recognized.
	// It wraps ErrInvalidReplacePolicy for errors.Is() compatibility.
	InvalidReplacePolicyError struct {
		Value ReplacePolicy
	}

	// DownloadID identifies a download enqueued in the host download manager.
	DownloadID string

	// DownloadOptions are the per-download parameters passed to the download manager.
	DownloadOptions struct {
		// GameID associates the download with a game so the host installs it for that game.
		GameID string
		// NameHint is the preferred destination file name. Empty means "derive from URL".
		NameHint string
		// Replace controls overwrite behavior for an existing file.
		Replace ReplacePolicy
	}

	// StatFunc reports filesystem metadata for a path. os.Stat satisfies it.
	StatFunc func(path string) (fs.FileInfo, error)

	// GameStore resolves a game's installation directory from store app ids.
	GameStore interface {
		FindByAppID(ctx context.Context, appIDs []string) (string, error)
	}

	// Downloader enqueues downloads in the host's download manager. StartDownload
	// returns once the download is enqueued, not once it completes.
	Downloader interface {
		StartDownload(ctx context.Context, url string, opts DownloadOptions) (DownloadID, error)
	}

	// State is read-only access to host-managed application state.
	State interface {
		DiscoveredPath(gameID string) (string, bool)
	}

	// Services bundles the host capabilities the extension consumes.
	Services struct {
		Store      GameStore
		Stat       StatFunc
		Downloader Downloader
		State      State
	}
)

// String returns the string representation of the ReplacePolicy.
func (p ReplacePolicy) String() string { return string(p) }

// IsValid returns whether the ReplacePolicy is one of the defined policies.
func (p ReplacePolicy) IsValid() (bool, []error) {
	switch p {
	case ReplaceAlways, ReplaceNever, ReplaceAsk:
		return true, nil
	default:
		return false, []error{&InvalidReplacePolicyError{Value: p}}
	}
}

// Error implements the error interface for InvalidReplacePolicyError.
func (e *InvalidReplacePolicyError) Error() string {
	return fmt.Sprintf("invalid replace policy %q (valid: always, never, ask)", e.Value)
}

// Unwrap returns ErrInvalidReplacePolicy for errors.Is() compatibility.
func (e *InvalidReplacePolicyError) Unwrap() error { return ErrInvalidReplacePolicy }

// WithDefaults fills nil capabilities with process defaults. Only Stat has a
// sensible default (os.Stat); the others must be supplied by the host.
func (s Services) WithDefaults() Services {
	if s.Stat == nil {
		s.Stat = os.Stat
	}
	return s
}
