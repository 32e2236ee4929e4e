// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for annoload.
//
// This package implements the Cobra command hierarchy: activation of the
// game (which provisions the mod loader), manual archive installs, archive
// classification, release listing, status reporting and configuration
// management. Every command builds its collaborators through App so tests
// can substitute the config source, HTTP client and output streams.
package cmd
