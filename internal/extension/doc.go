// SPDX-License-Identifier: MPL-2.0

// Package extension registers the Anno 1800 loader support with a host: the
// game itself, the loader mod type, the loader installer, and the activation
// handler that provisions the loader.
package extension
