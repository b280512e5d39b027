// Package paths resolves the configuration and notes directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultNotesDirName is the CWD-relative directory holding the database
// file and any backup artifacts.
const DefaultNotesDirName = "notes"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "UNMEMORIZE_CONFIG_DIR"
	EnvNotesDir  = "UNMEMORIZE_NOTES_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/unmemorize (fallback ~/.config/unmemorize)
// macOS:   ~/Library/Application Support/unmemorize
// Windows: %APPDATA%/unmemorize
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "unmemorize"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "unmemorize"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "unmemorize"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > UNMEMORIZE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveNotesDir returns the notes directory following the precedence
// chain: flag > configYAMLValue > UNMEMORIZE_NOTES_DIR env > $(CWD)/notes.
//
// The CWD-relative default keeps the notes database next to wherever the
// program is launched, matching the original application's layout.
func ResolveNotesDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvNotesDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultNotesDirName), nil
}
