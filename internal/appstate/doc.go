// SPDX-License-Identifier: MPL-2.0

// Package appstate persists the standalone host's application state: where
// games were discovered, what was downloaded, and what was installed. The
// state is a single TOML document rewritten atomically on every change.
package appstate
