// SPDX-License-Identifier: MPL-2.0

package standalone

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/annoload/annoload/internal/appstate"
	"github.com/annoload/annoload/internal/host"
)

var (
	// ErrUnknownGame is returned for a game id nothing registered.
	ErrUnknownGame = errors.New("unknown game")
	// ErrDuplicate is returned when a game, mod type or installer name is registered twice.
	ErrDuplicate = errors.New("already registered")
	// ErrNotDiscovered is returned when an operation needs a discovered game path.
	ErrNotDiscovered = errors.New("game not discovered")
	// ErrMissingRequiredFile is returned when a discovered path lacks a registered required file.
	ErrMissingRequiredFile = errors.New("required file missing")
)

type (
	// StateStore is the persistent state the host reads and writes.
	// *appstate.Store satisfies it.
	StateStore interface {
		DiscoveredPath(gameID string) (string, bool)
		SetDiscovered(gameID, path string) error
		RecordInstall(rec appstate.InstallRecord) error
	}

	// Host implements host.Registry and host.State.
	Host struct {
		mu         sync.Mutex
		games      map[string]host.GameRegistration
		modTypes   []host.ModType   // ascending priority
		installers []host.Installer // ascending priority
		handlers   []host.GameModeActivatedHandler
		failures   []error
		active     string

		state  StateStore
		stat   host.StatFunc
		logger *slog.Logger
	}

	// Option configures a Host.
	Option func(*Host)
)

var (
	_ host.Registry = (*Host)(nil)
	_ host.State    = (*Host)(nil)
)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// WithStat overrides the filesystem stat used for required-file checks.
func WithStat(stat host.StatFunc) Option {
	return func(h *Host) {
		h.stat = stat
	}
}

// New creates a Host backed by state.
func New(state StateStore, opts ...Option) *Host {
	h := &Host{
		games:  make(map[string]host.GameRegistration),
		state:  state,
		stat:   os.Stat,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterGame adds a game to the registry.
func (h *Host) RegisterGame(g host.GameRegistration) error {
	if g.ID == "" {
		return errors.New("game registration requires an id")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.games[g.ID]; ok {
		return fmt.Errorf("game %s: %w", g.ID, ErrDuplicate)
	}
	h.games[g.ID] = g
	h.logger.Debug("game registered", "game", g.ID)
	return nil
}

// RegisterModType adds a mod type, keeping the list ordered by priority.
func (h *Host) RegisterModType(mt host.ModType) error {
	if mt.Name == "" {
		return errors.New("mod type registration requires a name")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if slices.ContainsFunc(h.modTypes, func(m host.ModType) bool { return m.Name == mt.Name }) {
		return fmt.Errorf("mod type %s: %w", mt.Name, ErrDuplicate)
	}
	h.modTypes = append(h.modTypes, mt)
	slices.SortStableFunc(h.modTypes, func(a, b host.ModType) int { return cmp.Compare(a.Priority, b.Priority) })
	h.logger.Debug("mod type registered", "mod_type", mt.Name, "priority", mt.Priority)
	return nil
}

// RegisterInstaller adds an installer, keeping the list ordered by priority.
func (h *Host) RegisterInstaller(in host.Installer) error {
	if in.Name == "" || in.Test == nil || in.Install == nil {
		return errors.New("installer registration requires a name, test and install")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if slices.ContainsFunc(h.installers, func(i host.Installer) bool { return i.Name == in.Name }) {
		return fmt.Errorf("installer %s: %w", in.Name, ErrDuplicate)
	}
	h.installers = append(h.installers, in)
	slices.SortStableFunc(h.installers, func(a, b host.Installer) int { return cmp.Compare(a.Priority, b.Priority) })
	h.logger.Debug("installer registered", "installer", in.Name, "priority", in.Priority)
	return nil
}

// OnGameModeActivated subscribes handler to activation events.
func (h *Host) OnGameModeActivated(handler host.GameModeActivatedHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, handler)
}

// DiscoveredPath returns the persisted installation path for gameID.
func (h *Host) DiscoveredPath(gameID string) (string, bool) {
	return h.state.DiscoveredPath(gameID)
}

// Games returns the registered games ordered by id.
func (h *Host) Games() []host.GameRegistration {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := slices.Sorted(maps.Keys(h.games))
	out := make([]host.GameRegistration, 0, len(ids))
	for _, id := range ids {
		out = append(out, h.games[id])
	}
	return out
}

// ModTypes returns the registered mod types in priority order.
func (h *Host) ModTypes() []host.ModType {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.modTypes)
}

// Installers returns the registered installers in priority order.
func (h *Host) Installers() []host.Installer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.installers)
}

// ActiveGame returns the id of the last activated game.
func (h *Host) ActiveGame() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Fail records an unrecoverable error raised by an extension. The current
// activation returns it.
func (h *Host) Fail(err error) {
	if err == nil {
		return
	}
	h.logger.Error("extension reported a fatal error", "error", err)
	h.mu.Lock()
	h.failures = append(h.failures, err)
	h.mu.Unlock()
}

// Discover returns gameID's installation path, querying the game's store
// lookup when no persisted path exists or the persisted one went stale.
func (h *Host) Discover(ctx context.Context, gameID string) (string, error) {
	g, err := h.game(gameID)
	if err != nil {
		return "", err
	}

	if path, ok := h.state.DiscoveredPath(gameID); ok {
		if err := h.checkRequiredFiles(g, path); err == nil {
			return path, nil
		}
		h.logger.Warn("discovered path is stale, searching again", "game", gameID, "path", path)
	}

	if g.QueryPath == nil {
		return "", fmt.Errorf("game %s has no path query: %w", gameID, ErrNotDiscovered)
	}
	path, err := g.QueryPath(ctx)
	if err != nil {
		return "", fmt.Errorf("discovering %s: %w", gameID, err)
	}
	if err := h.checkRequiredFiles(g, path); err != nil {
		return "", err
	}
	if err := h.state.SetDiscovered(gameID, path); err != nil {
		return "", fmt.Errorf("saving discovery: %w", err)
	}
	h.logger.Info("game discovered", "game", gameID, "path", path)
	return path, nil
}

// ActivateGame discovers gameID, runs its setup hook and emits the
// activation event to every subscriber in registration order. Errors
// reported through Fail during the event are returned.
func (h *Host) ActivateGame(ctx context.Context, gameID string) error {
	g, err := h.game(gameID)
	if err != nil {
		return err
	}

	path, err := h.Discover(ctx, gameID)
	if err != nil {
		return err
	}
	if g.Setup != nil {
		if err := g.Setup(ctx, host.Discovery{GameID: gameID, Path: path}); err != nil {
			return fmt.Errorf("preparing %s for modding: %w", gameID, err)
		}
	}

	h.mu.Lock()
	h.active = gameID
	h.failures = nil
	handlers := slices.Clone(h.handlers)
	h.mu.Unlock()

	h.logger.Info("game activated", "game", gameID, "event", host.EventGameModeActivated)
	for _, handler := range handlers {
		handler(ctx, gameID)
	}

	h.mu.Lock()
	failures := h.failures
	h.failures = nil
	h.mu.Unlock()
	return errors.Join(failures...)
}

func (h *Host) game(gameID string) (host.GameRegistration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.games[gameID]
	if !ok {
		return host.GameRegistration{}, fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
	}
	return g, nil
}

func (h *Host) checkRequiredFiles(g host.GameRegistration, root string) error {
	for _, rel := range g.RequiredFiles {
		if _, err := h.stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			return fmt.Errorf("%w: %s not found in %s", ErrMissingRequiredFile, rel, root)
		}
	}
	return nil
}
