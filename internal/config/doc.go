// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/annoload/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/annoload/config.cue on macOS, %APPDATA%\annoload\config.cue
// on Windows). It covers the release catalog, game discovery sources, the download
// directory and logging.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
