// SPDX-License-Identifier: MPL-2.0

// Package standalone is a minimal mod-manager host. It keeps the registry
// that extensions register against, discovers games, emits activation
// events, and installs archives by running the registered installers and
// applying their instructions.
package standalone
