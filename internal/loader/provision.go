// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"sync/atomic"

	"github.com/annoload/annoload/internal/catalog"
	"github.com/annoload/annoload/internal/game"
	"github.com/annoload/annoload/internal/host"
)

type (
	// Resolver finds the newest loader package in the release catalog.
	Resolver interface {
		ResolveLatestAsset(ctx context.Context) (catalog.ReleaseAsset, error)
	}

	// Provisioner installs the loader when a game activation finds it missing.
	//
	// Each EnsureProvisioned call is one self-contained attempt: check, resolve,
	// trigger. Nothing carries over between calls, so a failed attempt is
	// simply retried on the next activation.
	Provisioner struct {
		game       game.Descriptor
		presence   Presence
		resolver   Resolver
		downloader host.Downloader
		state      host.State
		logger     *slog.Logger
		attempts   atomic.Int64
	}

	// ProvisionerOption configures a Provisioner during construction.
	ProvisionerOption func(*Provisioner)
)

// WithPresence overrides the presence check. The default stats the backup
// library through the host's StatFunc.
func WithPresence(p Presence) ProvisionerOption {
	return func(pr *Provisioner) {
		pr.presence = p
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) ProvisionerOption {
	return func(pr *Provisioner) {
		pr.logger = l
	}
}

// NewProvisioner creates a Provisioner for d using the host's downloader and
// discovery state.
func NewProvisioner(d game.Descriptor, resolver Resolver, svc host.Services, opts ...ProvisionerOption) *Provisioner {
	svc = svc.WithDefaults()
	p := &Provisioner{
		game:       d,
		resolver:   resolver,
		downloader: svc.Downloader,
		state:      svc.State,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.presence == nil {
		p.presence = NewPresenceChecker(d.Loader, svc.Stat)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Attempts returns how many download triggers this Provisioner has issued.
func (p *Provisioner) Attempts() int64 { return p.attempts.Load() }

// EnsureProvisioned runs one provisioning attempt for an activation of gameID.
//
// Activations of other games are ignored. Presence, catalog and download
// failures are logged and end the attempt. The only returned error is a
// *game.ContractViolationError, raised when the host activates the game
// without having discovered it.
func (p *Provisioner) EnsureProvisioned(ctx context.Context, gameID string) error {
	if !p.game.Matches(gameID) {
		return nil
	}

	root, _ := p.state.DiscoveredPath(gameID)
	folder, err := p.game.LoaderFolderPath(root)
	if err != nil {
		p.logger.Error("game activated without discovery", "game", gameID, "error", err)
		return err
	}

	if p.presence.IsProvisioned(ctx, folder) {
		p.logger.Info("mod loader already installed", "game", gameID, "folder", folder)
		return nil
	}
	p.logger.Info("mod loader missing, resolving latest release", "game", gameID, "folder", folder)

	asset, err := p.resolver.ResolveLatestAsset(ctx)
	if err != nil {
		p.logger.Warn("could not resolve mod loader release", "game", gameID, "error", err)
		return nil
	}

	p.attempts.Add(1)
	id, err := p.downloader.StartDownload(ctx, asset.DownloadURL, host.DownloadOptions{
		GameID:   gameID,
		NameHint: nameHint(asset),
		Replace:  host.ReplaceAlways,
	})
	if err != nil {
		p.logger.Warn("could not start mod loader download", "game", gameID, "url", asset.DownloadURL, "error", err)
		return nil
	}

	p.logger.Info("mod loader download started",
		"game", gameID, "release", asset.ReleaseTag, "url", asset.DownloadURL, "download", id)
	return nil
}

// nameHint prefers the catalog's asset name and falls back to the URL's last
// path segment.
func nameHint(asset catalog.ReleaseAsset) string {
	if asset.Name != "" {
		return asset.Name
	}
	u, err := url.Parse(asset.DownloadURL)
	if err != nil || u.Path == "" {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return ""
	}
	return base
}
