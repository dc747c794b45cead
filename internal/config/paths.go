// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package config

import (
	"os"
	"path/filepath"
)

const appName = "assoplat"

// Dir returns the XDG config directory for assoplat.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// DefaultPath is the config file read when none is named explicitly.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// ResolvePath returns explicit if set, otherwise DefaultPath when that file
// exists, otherwise "" (defaults and flags only).
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if info, err := os.Stat(DefaultPath()); err == nil && !info.IsDir() {
		return DefaultPath()
	}
	return ""
}
