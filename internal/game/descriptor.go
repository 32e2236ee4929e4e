// SPDX-License-Identifier: MPL-2.0

package game

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// ID is the mod manager's id for Anno 1800.
	ID = "anno1800"
	// SteamAppID is the Steam store app id.
	SteamAppID = "916440"
	// UplayAppID is the Ubisoft Connect app id.
	UplayAppID = "4553"

	// ModTypeLoader is the install target tag that redirects the loader package
	// next to the game executable instead of into the mods folder.
	ModTypeLoader = "anno1800-modtype-modloader"
	// InstallerLoader is the name the loader installer registers under.
	InstallerLoader = "anno1800-installer-modloader"

	// ModTypePriority is the registration priority of the loader mod type.
	ModTypePriority = 10
	// InstallerPriority is the registration priority of the loader installer.
	InstallerPriority = 25

	// DefaultCatalogURL is the GitHub API base for the loader's repository.
	DefaultCatalogURL = "https://api.github.com/repos/xforce/anno1800-mod-loader"
)

// ErrContractViolation is the sentinel error wrapped by ContractViolationError.
var ErrContractViolation = errors.New("host contract violation")

type (
	// LoaderMarker names the two libraries that identify the loader. The
	// backup library existing on disk means the loader is installed; both
	// names inside an archive mean the archive is the loader package.
	LoaderMarker struct {
		PrimaryLibrary string
		BackupLibrary  string
	}

	// Descriptor is the immutable metadata binding the extension to one game.
	Descriptor struct {
		ID                string
		Name              string
		StoreIDs          []string // queried in order
		ExecutableRelPath string   // relative to the installation root
		ModFolderName     string
		CatalogURL        string
		Loader            LoaderMarker
	}

	// ContractViolationError reports that the host invoked the extension
	// outside its documented lifecycle, e.g. before the game was discovered.
	ContractViolationError struct {
		GameID string
		Detail string
	}
)

// Anno1800 returns the descriptor for Anno 1800. Each call returns a fresh
// copy so callers cannot mutate shared state.
func Anno1800() Descriptor {
	return Descriptor{
		ID:                ID,
		Name:              "Anno 1800",
		StoreIDs:          []string{UplayAppID, SteamAppID},
		ExecutableRelPath: filepath.Join("Bin", "Win64", "Anno1800.exe"),
		ModFolderName:     "mods",
		CatalogURL:        DefaultCatalogURL,
		Loader: LoaderMarker{
			PrimaryLibrary: "python35.dll",
			BackupLibrary:  "python35_ubi.dll",
		},
	}
}

// Matches reports whether gameID refers to this game.
func (d Descriptor) Matches(gameID string) bool { return gameID == d.ID }

// ExecutablePath returns the absolute executable path under root.
func (d Descriptor) ExecutablePath(root string) string {
	return filepath.Join(root, d.ExecutableRelPath)
}

// LoaderFolderPath returns the directory that contains the game executable,
// which is where the loader libraries live. An empty root means the host has
// no discovery for the game and is reported as a contract violation.
func (d Descriptor) LoaderFolderPath(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", &ContractViolationError{GameID: d.ID, Detail: "no discovered installation path"}
	}
	return filepath.Dir(d.ExecutablePath(root)), nil
}

// ModFolderPath returns the default mod folder under root.
func (d Descriptor) ModFolderPath(root string) string {
	return filepath.Join(root, d.ModFolderName)
}

// Error implements the error interface for ContractViolationError.
func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("host contract violation for game %q: %s", e.GameID, e.Detail)
}

// Unwrap returns ErrContractViolation for errors.Is() compatibility.
func (e *ContractViolationError) Unwrap() error { return ErrContractViolation }

// IsContractViolation reports whether err is or wraps a ContractViolationError.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContractViolation)
}
