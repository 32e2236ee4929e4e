// SPDX-License-Identifier: MPL-2.0

// Package catalog resolves the newest loader package from a GitHub-releases
// shaped catalog.
//
// A single GET of {base}/releases is issued per resolution. The newest release
// is the first element of the response. Within it, the asset is chosen by name
// pattern when one is configured and otherwise by position: the second asset
// (index 1) is the installable package in the loader's release layout.
package catalog
