// SPDX-License-Identifier: MPL-2.0

// Package loader implements the mod loader lifecycle for a single game:
// detecting whether the loader is present, provisioning it from the release
// catalog when it is not, and recognizing and placing the loader package when
// the host installs an archive.
//
// The package performs no I/O of its own beyond a filesystem stat. Downloads,
// archive extraction and state persistence belong to the host and are reached
// through the interfaces in internal/host.
package loader
