package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user data directory.
const appName = "planner"

// ResolveDataDir picks the data directory: the --dir flag, then PLANNER_DIR,
// then the per-OS default.
func ResolveDataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if dir := os.Getenv(EnvPrefix + "_DIR"); dir != "" {
		return dir
	}
	return DefaultDataDir()
}

// DefaultDataDir returns the per-user data directory for this OS.
//
//   - macOS:   ~/Library/Application Support/planner
//   - Windows: %LOCALAPPDATA%\planner, then %APPDATA%\planner
//   - others:  $XDG_DATA_HOME/planner, then ~/.local/share/planner
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return dataDirFor(runtime.GOOS, home, os.Getenv)
}

// dataDirFor returns the first usable base for goos, joined with appName.
func dataDirFor(goos, home string, getenv func(string) string) string {
	var bases []string
	switch goos {
	case "darwin":
		bases = []string{filepath.Join(home, "Library", "Application Support")}
	case "windows":
		bases = []string{getenv("LOCALAPPDATA"), getenv("APPDATA"), home}
	default:
		bases = []string{getenv("XDG_DATA_HOME"), filepath.Join(home, ".local", "share")}
	}
	for _, base := range bases {
		if base != "" {
			return filepath.Join(base, appName)
		}
	}
	return appName
}
