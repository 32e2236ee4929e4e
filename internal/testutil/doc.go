// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test fixtures: fake game installations and zip
// archives. Every helper fails the test immediately on I/O errors.
package testutil
