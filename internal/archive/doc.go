// SPDX-License-Identifier: MPL-2.0

// Package archive lists and extracts zip archives for the standalone host's
// install engine. Only the entries named by install instructions are written,
// and every destination is confined to the install target.
package archive
