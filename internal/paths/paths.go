// Package paths resolves the configuration directory, the data directory,
// and the database file location for backlog.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// appDirName is the directory created under the platform config/data roots.
const appDirName = "backlog"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "BACKLOG_CONFIG_DIR"
	EnvDataDir   = "BACKLOG_DATA_DIR"
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
// Linux:   $XDG_CONFIG_HOME/backlog (fallback ~/.config/backlog)
// macOS:   ~/Library/Application Support/backlog
// Windows: %APPDATA%/backlog
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/backlog (fallback ~/.local/share/backlog)
// macOS:   ~/Library/Application Support/backlog
// Windows: %APPDATA%/backlog
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appDirName), nil
	}
	// macOS and Windows keep data next to the config.
	return DefaultConfigDir()
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > BACKLOG_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml value > BACKLOG_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// DBPath joins the data directory with the configured database file name,
// falling back to the backend's default file name. An absolute DBFile is
// returned unchanged.
func DBPath(cfg types.Config) string {
	name := cfg.DBFile
	if name == "" {
		name = types.DefaultDBFile(cfg.Backend)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(cfg.DataDir, name)
}
