// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"strings"

	"github.com/annoload/annoload/internal/game"
	"github.com/annoload/annoload/internal/host"
)

// ErrNilFileList is returned when the host passes a nil archive listing.
var ErrNilFileList = errors.New("archive file list is nil")

// IsLoaderArchive reports whether files is the loader package for d. Both
// marker libraries must be present, compared case-insensitively by base name,
// and gameID must be d's game.
func IsLoaderArchive(d game.Descriptor, files []string, gameID string) (host.SupportedResult, error) {
	if files == nil {
		return host.SupportedResult{}, ErrNilFileList
	}

	supported := d.Matches(gameID) &&
		containsBaseName(files, d.Loader.PrimaryLibrary) &&
		containsBaseName(files, d.Loader.BackupLibrary)

	return host.SupportedResult{Supported: supported, RequiredFiles: []string{}}, nil
}

func containsBaseName(files []string, name string) bool {
	for _, f := range files {
		if strings.EqualFold(baseName(f), name) {
			return true
		}
	}
	return false
}

// baseName returns the last element of an archive entry path. Archive listings
// use either separator depending on the tool that produced them.
func baseName(entry string) string {
	if i := strings.LastIndexAny(entry, `/\`); i >= 0 {
		return entry[i+1:]
	}
	return entry
}
