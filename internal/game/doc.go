// SPDX-License-Identifier: MPL-2.0

// Package game holds the static description of Anno 1800 as the loader
// extension sees it: ids, store app ids, executable location, mod folder, the
// loader marker files, and the release catalog the loader is published to.
package game
