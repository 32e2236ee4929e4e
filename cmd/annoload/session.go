// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/annoload/annoload/internal/appstate"
	"github.com/annoload/annoload/internal/catalog"
	"github.com/annoload/annoload/internal/config"
	"github.com/annoload/annoload/internal/download"
	"github.com/annoload/annoload/internal/extension"
	"github.com/annoload/annoload/internal/game"
	"github.com/annoload/annoload/internal/host"
	"github.com/annoload/annoload/internal/loader"
	"github.com/annoload/annoload/internal/standalone"
	"github.com/annoload/annoload/internal/store"
)

type (
	// session is one invocation's object graph: the standalone host with the
	// loader extension registered, plus the services backing it.
	session struct {
		cfg       *config.Config
		logger    *slog.Logger
		game      game.Descriptor
		state     *appstate.Store
		host      *standalone.Host
		downloads *download.Manager
		catalog   *catalog.Client
		resolver  *trackingResolver
		extension *extension.Extension
	}

	// trackingResolver remembers the outcome of the last catalog lookup so
	// the CLI can explain why an activation left the loader missing.
	trackingResolver struct {
		next loader.Resolver

		mu   sync.Mutex
		last resolveOutcome
	}

	resolveOutcome struct {
		asset catalog.ReleaseAsset
		err   error
		ran   bool
	}
)

func (r *trackingResolver) ResolveLatestAsset(ctx context.Context) (catalog.ReleaseAsset, error) {
	asset, err := r.next.ResolveLatestAsset(ctx)
	r.mu.Lock()
	r.last = resolveOutcome{asset: asset, err: err, ran: true}
	r.mu.Unlock()
	return asset, err
}

// outcome returns the most recent lookup.
func (r *trackingResolver) outcome() resolveOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// newSession loads configuration and wires the host, the loader extension
// and their services.
func (a *App) newSession(ctx context.Context) (*session, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	logger := newLogger(a.stderr, cfg.Log.Level, a.flags.verbose)
	slog.SetDefault(logger)

	dataDir, err := a.dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	state, err := appstate.Open(filepath.Join(dataDir, appstate.FileName))
	if err != nil {
		return nil, err
	}

	d := game.Anno1800()
	d.CatalogURL = cfg.Catalog.BaseURL

	gamePath := cfg.Game.Path
	if a.flags.gamePath != "" {
		gamePath = a.flags.gamePath
	}
	if gamePath != "" {
		// A pinned path wins over whatever an earlier run discovered.
		if known, ok := state.DiscoveredPath(d.ID); ok && filepath.Clean(known) != filepath.Clean(gamePath) {
			if err := state.ForgetDiscovered(d.ID); err != nil {
				return nil, err
			}
			logger.Debug("pinned game path replaces discovered path", "game", d.ID, "old", known, "new", gamePath)
		}
	}

	h := standalone.New(state, standalone.WithLogger(logger))

	downloadsDir := cfg.Downloads.Dir
	if downloadsDir == "" {
		downloadsDir = filepath.Join(dataDir, "downloads")
	}
	dlOpts := []download.Option{
		download.WithUserAgent(userAgent()),
		download.WithRecorder(state),
		download.WithLogger(logger),
	}
	if a.HTTPClient != nil {
		dlOpts = append(dlOpts, download.WithHTTPClient(a.HTTPClient))
	}
	if cfg.Downloads.AutoInstall {
		dlOpts = append(dlOpts, download.WithCompletionHandler(h.HandleDownloadComplete))
	}
	downloads := download.NewManager(downloadsDir, dlOpts...)

	client, err := a.newCatalogClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	resolver := &trackingResolver{next: client}

	locator := store.NewLocator(
		store.WithExplicitPath(gamePath),
		store.WithSteamLibraries(cfg.Game.SteamLibraries...),
		store.WithSearchPaths(cfg.Game.SearchPaths...),
		store.WithRequiredFile(d.ExecutableRelPath),
		store.WithLogger(logger),
	)

	ext := extension.New(d, resolver, host.Services{
		Store:      locator,
		Downloader: downloads,
		State:      h,
	},
		extension.WithLogger(logger),
		extension.WithContractViolationHandler(h.Fail),
	)
	if err := ext.Register(h); err != nil {
		return nil, err
	}

	return &session{
		cfg:       cfg,
		logger:    logger,
		game:      d,
		state:     state,
		host:      h,
		downloads: downloads,
		catalog:   client,
		resolver:  resolver,
		extension: ext,
	}, nil
}

func (a *App) newCatalogClient(cfg *config.Config, logger *slog.Logger) (*catalog.Client, error) {
	opts := []catalog.ClientOption{
		catalog.WithBaseURL(cfg.Catalog.BaseURL),
		catalog.WithAssetPattern(cfg.Catalog.AssetPattern),
		catalog.WithToken(cfg.Catalog.Token),
		catalog.WithUserAgent(userAgent()),
		catalog.WithLogger(logger),
	}
	if a.HTTPClient != nil {
		opts = append(opts, catalog.WithHTTPClient(a.HTTPClient))
	} else {
		timeout, err := cfg.Catalog.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithTimeout(timeout))
	}
	return catalog.NewClient(opts...), nil
}

// loaderFolder returns the discovered loader folder, or false when the game
// has not been discovered.
func (s *session) loaderFolder() (string, bool) {
	root, ok := s.state.DiscoveredPath(s.game.ID)
	if !ok {
		return "", false
	}
	folder, err := s.game.LoaderFolderPath(root)
	if err != nil {
		return "", false
	}
	return folder, true
}

func userAgent() string {
	return config.AppName + "/" + Version
}
