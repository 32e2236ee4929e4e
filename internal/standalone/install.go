// SPDX-License-Identifier: MPL-2.0

package standalone

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/annoload/annoload/internal/appstate"
	"github.com/annoload/annoload/internal/archive"
	"github.com/annoload/annoload/internal/download"
	"github.com/annoload/annoload/internal/host"
)

var (
	// ErrNoInstaller is returned when no registered installer accepts an archive.
	ErrNoInstaller = errors.New("no installer supports this archive")
	// ErrUnknownModType is returned when an instruction selects an unregistered mod type.
	ErrUnknownModType = errors.New("unknown mod type")
)

// Plan is what installing an archive will do, computed without touching
// the target.
type Plan struct {
	GameID       string
	Archive      string
	Files        []string
	Installer    string
	ModType      string // empty means the game's mod folder
	Target       string
	Instructions []host.Instruction
}

// Classify returns the first installer, in priority order, that accepts
// files for gameID.
func (h *Host) Classify(ctx context.Context, gameID string, files []string) (host.Installer, error) {
	for _, in := range h.Installers() {
		res, err := in.Test(ctx, files, gameID)
		if err != nil {
			return host.Installer{}, fmt.Errorf("installer %s: %w", in.Name, err)
		}
		if res.Supported {
			return in, nil
		}
	}
	return host.Installer{}, ErrNoInstaller
}

// PlanArchive lists archivePath, picks an installer and resolves the
// target directory.
func (h *Host) PlanArchive(ctx context.Context, gameID, archivePath string) (Plan, error) {
	g, err := h.game(gameID)
	if err != nil {
		return Plan{}, err
	}

	files, err := archive.List(archivePath)
	if err != nil {
		return Plan{}, err
	}
	in, err := h.Classify(ctx, gameID, files)
	if err != nil {
		return Plan{}, fmt.Errorf("%s: %w", filepath.Base(archivePath), err)
	}

	instructions, err := in.Install(ctx, files)
	if err != nil {
		return Plan{}, fmt.Errorf("installer %s: %w", in.Name, err)
	}

	plan := Plan{
		GameID:       gameID,
		Archive:      archivePath,
		Files:        files,
		Installer:    in.Name,
		Instructions: instructions,
	}
	for _, inst := range instructions {
		if err := inst.Validate(); err != nil {
			return Plan{}, fmt.Errorf("installer %s: %w", in.Name, err)
		}
		if inst.Type == host.InstructionSetModType {
			plan.ModType = inst.Value
		}
	}

	plan.Target, err = h.resolveTarget(g, plan.ModType, archivePath)
	if err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// InstallArchive plans archivePath and copies the planned entries into the
// target, then records the install.
func (h *Host) InstallArchive(ctx context.Context, gameID, archivePath string) (appstate.InstallRecord, error) {
	plan, err := h.PlanArchive(ctx, gameID, archivePath)
	if err != nil {
		return appstate.InstallRecord{}, err
	}

	var copies []archive.Copy
	for _, inst := range plan.Instructions {
		if inst.Type == host.InstructionCopy {
			copies = append(copies, archive.Copy{Source: inst.Source, Destination: inst.Destination})
		}
	}
	n, err := archive.Extract(ctx, archivePath, plan.Target, copies)
	if err != nil {
		return appstate.InstallRecord{}, fmt.Errorf("installing %s: %w", filepath.Base(archivePath), err)
	}

	rec := appstate.InstallRecord{
		GameID:    gameID,
		Archive:   archivePath,
		Installer: plan.Installer,
		ModType:   plan.ModType,
		Target:    plan.Target,
		Files:     n,
	}
	if err := h.state.RecordInstall(rec); err != nil {
		return rec, fmt.Errorf("recording install: %w", err)
	}
	h.logger.Info("archive installed", "game", gameID, "archive", filepath.Base(archivePath),
		"installer", plan.Installer, "mod_type", plan.ModType, "target", plan.Target, "files", n)
	return rec, nil
}

// HandleDownloadComplete installs a finished download for the game it was
// requested for. Failed and game-less downloads are ignored.
func (h *Host) HandleDownloadComplete(ctx context.Context, res download.Result) {
	if res.Err != nil || res.GameID == "" {
		return
	}
	if _, err := h.InstallArchive(ctx, res.GameID, res.Path); err != nil {
		h.logger.Error("installing download failed", "download", res.ID, "game", res.GameID, "error", err)
	}
}

func (h *Host) resolveTarget(g host.GameRegistration, modType, archivePath string) (string, error) {
	if modType != "" {
		mt, ok := h.modType(modType)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownModType, modType)
		}
		if mt.IsSupported != nil && !mt.IsSupported(g.ID) {
			return "", fmt.Errorf("mod type %s does not support game %s", modType, g.ID)
		}
		target, err := mt.TargetPath()
		if err != nil {
			return "", fmt.Errorf("mod type %s: %w", modType, err)
		}
		return target, nil
	}

	root, ok := h.state.DiscoveredPath(g.ID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotDiscovered, g.ID)
	}
	modDir := root
	if g.QueryModPath != nil {
		modDir = filepath.Join(root, filepath.FromSlash(g.QueryModPath(root)))
	}
	name := filepath.Base(archivePath)
	return filepath.Join(modDir, strings.TrimSuffix(name, filepath.Ext(name))), nil
}

func (h *Host) modType(name string) (host.ModType, bool) {
	for _, mt := range h.ModTypes() {
		if mt.Name == name {
			return mt, true
		}
	}
	return host.ModType{}, false
}
