// Package config resolves continuity's configuration: the global config
// directory, the optional config.yaml inside it, .env files, and environment
// overrides.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the continuity configuration directory.
//
// Resolution:
//   - $CONTINUITY_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/continuity if set (respects XDG on any platform)
//   - %AppData%/continuity on Windows
//   - ~/.config/continuity on macOS and Linux
func Dir() string {
	if dir := os.Getenv("CONTINUITY_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "continuity")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "continuity")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "continuity")
}

// File returns the path of config.yaml inside Dir, or "" when Dir is unknown.
func File() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
