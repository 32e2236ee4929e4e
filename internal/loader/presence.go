// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"os"
	"path/filepath"

	"github.com/annoload/annoload/internal/game"
	"github.com/annoload/annoload/internal/host"
)

type (
	// Presence reports whether the loader is already installed in a folder.
	Presence interface {
		IsProvisioned(ctx context.Context, root string) bool
	}

	// PresenceChecker detects the loader by the backup library it leaves next
	// to the game executable. The backup exists whether the loader was
	// installed by the host or by hand.
	PresenceChecker struct {
		marker game.LoaderMarker
		stat   host.StatFunc
	}
)

// NewPresenceChecker creates a PresenceChecker. A nil stat uses os.Stat.
func NewPresenceChecker(marker game.LoaderMarker, stat host.StatFunc) *PresenceChecker {
	if stat == nil {
		stat = os.Stat
	}
	return &PresenceChecker{marker: marker, stat: stat}
}

// IsProvisioned reports whether root/<backup library> can be stat'ed. Every
// error, not-found included, counts as "not confirmed present".
func (p *PresenceChecker) IsProvisioned(ctx context.Context, root string) bool {
	if ctx.Err() != nil {
		return false
	}
	_, err := p.stat(filepath.Join(root, p.marker.BackupLibrary))
	return err == nil
}

// MarkerPath returns the path whose existence IsProvisioned checks.
func (p *PresenceChecker) MarkerPath(root string) string {
	return filepath.Join(root, p.marker.BackupLibrary)
}
