// Package paths resolves the configuration directory and the optional
// SQLite source database.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the platform configuration subdirectory.
const AppName = "margins"

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.yaml"

// Environment variable names for overrides.
const (
	EnvConfigDir = "MARGINS_CONFIG_DIR"
	EnvDatabase  = "MARGINS_SQLITE"
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
// Linux:   $XDG_CONFIG_HOME/margins (fallback ~/.config/margins)
// macOS:   ~/Library/Application Support/margins
// Windows: %APPDATA%/margins
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > MARGINS_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ConfigFile returns the path of the configuration file in dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// ResolveDatabase returns the SQLite database to read tables from following
// the precedence chain: flag > configYAMLValue > MARGINS_SQLITE env. It
// returns "" when none is set; reading from SQLite is optional.
func ResolveDatabase(flag, configYAMLValue string) (string, error) {
	for _, v := range []string{flag, configYAMLValue, os.Getenv(EnvDatabase)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return "", nil
}
