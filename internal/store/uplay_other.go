// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package store

// uplayInstallDir is a no-op off Windows; Ubisoft Connect installs are found
// through search paths instead.
func uplayInstallDir(string) (string, bool) { return "", false }
