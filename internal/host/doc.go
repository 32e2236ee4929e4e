// SPDX-License-Identifier: MPL-2.0

// Package host defines the contracts between the loader extension and the mod
// manager that hosts it.
//
// The extension consumes host capabilities (game-store lookup, filesystem stat,
// download triggering, discovery state) and exposes registrations (game, mod
// type, installer, event handler). Nothing in this package performs I/O; it only
// names the shapes both sides agree on. internal/standalone provides a concrete
// host for running the extension outside a mod manager.
package host
