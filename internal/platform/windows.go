// SPDX-License-Identifier: MPL-2.0

// Package platform holds file naming rules of the platform the game runs on.
// They apply to installed files even when annoload itself runs elsewhere.
package platform

import "strings"

// WindowsReservedNames are device names Windows reserves regardless of
// extension.
var WindowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName reports whether a single path component names a
// Windows device. Everything from the first dot on is ignored, as are
// trailing spaces, so "nul.tar.gz" and "CON " are both reserved.
func IsWindowsReservedName(name string) bool {
	stem := strings.ToUpper(name)
	if idx := strings.IndexByte(stem, '.'); idx != -1 {
		stem = stem[:idx]
	}
	return WindowsReservedNames[strings.TrimRight(stem, " ")]
}

// ReservedComponent returns the first component of a slash- or
// backslash-separated path that is a Windows reserved name.
func ReservedComponent(p string) (string, bool) {
	for _, part := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if IsWindowsReservedName(part) {
			return part, true
		}
	}
	return "", false
}
