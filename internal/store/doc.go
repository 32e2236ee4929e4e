// SPDX-License-Identifier: MPL-2.0

// Package store locates installed games for the standalone host. It
// implements host.GameStore over an explicit path override, Steam library
// manifests, the Ubisoft Connect registry (Windows only), and a list of
// configured search paths.
package store
