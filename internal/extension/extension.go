// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/annoload/annoload/internal/game"
	"github.com/annoload/annoload/internal/host"
	"github.com/annoload/annoload/internal/loader"
)

// ErrNoGameStore is returned by the game's path query when the host supplied no store.
var ErrNoGameStore = errors.New("no game store configured")

type (
	// Extension is the composition root of the loader support. It is built
	// once at host startup and handed to Register.
	Extension struct {
		game        game.Descriptor
		services    host.Services
		provisioner *loader.Provisioner
		logger      *slog.Logger
		onViolation func(error)
	}

	// Option configures an Extension during construction.
	Option func(*Extension)
)

// WithLogger sets the logger for the extension and its provisioner.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extension) {
		e.logger = l
	}
}

// WithContractViolationHandler sets what happens when the host breaks its
// lifecycle contract. The default panics.
func WithContractViolationHandler(fn func(error)) Option {
	return func(e *Extension) {
		e.onViolation = fn
	}
}

// New creates an Extension for d backed by the host services and the given
// release resolver.
func New(d game.Descriptor, resolver loader.Resolver, svc host.Services, opts ...Option) *Extension {
	e := &Extension{
		game:     d,
		services: svc.WithDefaults(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.onViolation == nil {
		e.onViolation = func(err error) { panic(err) }
	}
	e.provisioner = loader.NewProvisioner(d, resolver, e.services, loader.WithLogger(e.logger))
	return e
}

// Provisioner returns the provisioner driven by activation events.
func (e *Extension) Provisioner() *loader.Provisioner { return e.provisioner }

// Register adds the game, the loader mod type, the loader installer and the
// activation handler to reg.
func (e *Extension) Register(reg host.Registry) error {
	if err := reg.RegisterGame(e.gameRegistration()); err != nil {
		return fmt.Errorf("registering game %s: %w", e.game.ID, err)
	}
	if err := reg.RegisterModType(e.modType()); err != nil {
		return fmt.Errorf("registering mod type %s: %w", game.ModTypeLoader, err)
	}
	if err := reg.RegisterInstaller(e.installer()); err != nil {
		return fmt.Errorf("registering installer %s: %w", game.InstallerLoader, err)
	}
	reg.OnGameModeActivated(e.onGameModeActivated)

	e.logger.Debug("extension registered", "game", e.game.ID)
	return nil
}

func (e *Extension) gameRegistration() host.GameRegistration {
	return host.GameRegistration{
		ID:        e.game.ID,
		Name:      e.game.Name,
		MergeMods: true,
		QueryPath: func(ctx context.Context) (string, error) {
			if e.services.Store == nil {
				return "", ErrNoGameStore
			}
			path, err := e.services.Store.FindByAppID(ctx, e.game.StoreIDs)
			if err != nil {
				return "", fmt.Errorf("finding %s: %w", e.game.Name, err)
			}
			e.logger.Debug("game found", "game", e.game.ID, "path", path)
			return path, nil
		},
		QueryModPath:  func(string) string { return e.game.ModFolderName },
		Executable:    func() string { return e.game.ExecutableRelPath },
		RequiredFiles: []string{e.game.ExecutableRelPath},
		Setup:         e.prepareForModding,
	}
}

func (e *Extension) modType() host.ModType {
	return host.ModType{
		Name:        game.ModTypeLoader,
		Priority:    game.ModTypePriority,
		IsSupported: e.game.Matches,
		TargetPath: func() (string, error) {
			root, _ := e.services.State.DiscoveredPath(e.game.ID)
			return e.game.LoaderFolderPath(root)
		},
		IsDefault: false,
	}
}

func (e *Extension) installer() host.Installer {
	return host.Installer{
		Name:     game.InstallerLoader,
		Priority: game.InstallerPriority,
		Test: func(_ context.Context, files []string, gameID string) (host.SupportedResult, error) {
			result, err := loader.IsLoaderArchive(e.game, files, gameID)
			if err != nil {
				return host.SupportedResult{}, err
			}
			e.logger.Debug("classified archive", "game", gameID, "files", len(files), "supported", result.Supported)
			return result, nil
		},
		Install: func(_ context.Context, files []string) ([]host.Instruction, error) {
			return loader.PlanInstallation(files)
		},
	}
}

func (e *Extension) onGameModeActivated(ctx context.Context, gameID string) {
	if err := e.provisioner.EnsureProvisioned(ctx, gameID); err != nil {
		e.onViolation(err)
	}
}

// prepareForModding makes sure the mod folder exists and is writable.
func (e *Extension) prepareForModding(_ context.Context, discovery host.Discovery) error {
	modDir := e.game.ModFolderPath(discovery.Path)
	if err := os.MkdirAll(modDir, 0o755); err != nil {
		return fmt.Errorf("creating mod folder: %w", err)
	}

	probe, err := os.CreateTemp(modDir, ".annoload-write-*")
	if err != nil {
		return fmt.Errorf("mod folder %s is not writable: %w", modDir, err)
	}
	name := probe.Name()
	_ = probe.Close()   // empty probe file
	_ = os.Remove(name) // best-effort cleanup
	return nil
}
