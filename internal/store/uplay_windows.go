// SPDX-License-Identifier: MPL-2.0

//go:build windows

package store

import (
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

const uplayInstallsKey = `SOFTWARE\WOW6432Node\Ubisoft\Launcher\Installs\`

// uplayInstallDir reads InstallDir from the Ubisoft Connect launcher's
// per-app registry key.
func uplayInstallDir(appID string) (string, bool) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, uplayInstallsKey+appID, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer func() { _ = k.Close() }()

	dir, _, err := k.GetStringValue("InstallDir")
	if err != nil || dir == "" {
		return "", false
	}
	return filepath.Clean(dir), true
}
