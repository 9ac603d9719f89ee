// Package paths resolves where storefront keeps its configuration, its
// data and its seed overrides.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user application directories.
const AppName = "storefront"

// Environment variables that override directory locations.
const (
	EnvConfigDir = "STOREFRONT_CONFIG_DIR"
	EnvDataDir   = "STOREFRONT_DATA_DIR"
)

// SeedDirName is the seed override directory inside the data directory.
const SeedDirName = "seed"

// platformDir holds platform lookups so tests can replace them.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// Dirs is a resolved set of directories.
type Dirs struct {
	Config string
	Data   string
	Seed   string
}

// DefaultConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/storefront (fallback ~/.config/storefront)
// macOS:   ~/Library/Application Support/storefront
// Windows: %APPDATA%/storefront
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the per-user data directory.
//
// Linux:   $XDG_DATA_HOME/storefront (fallback ~/.local/share/storefront)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, homeRel string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir applies flag > STOREFRONT_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	return firstAbs(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir applies flag > config value > STOREFRONT_DATA_DIR >
// DefaultDataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	return firstAbs(DefaultDataDir, flag, configValue, os.Getenv(EnvDataDir))
}

// ResolveSeedDir returns configValue when set, otherwise the seed
// directory inside dataDir.
func ResolveSeedDir(configValue, dataDir string) (string, error) {
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return filepath.Join(dataDir, SeedDirName), nil
}

// Resolve resolves all directories at once.
func Resolve(configFlag, dataFlag, dataConfigValue, seedConfigValue string) (Dirs, error) {
	var d Dirs
	var err error
	if d.Config, err = ResolveConfigDir(configFlag); err != nil {
		return Dirs{}, err
	}
	if d.Data, err = ResolveDataDir(dataFlag, dataConfigValue); err != nil {
		return Dirs{}, err
	}
	if d.Seed, err = ResolveSeedDir(seedConfigValue, d.Data); err != nil {
		return Dirs{}, err
	}
	return d, nil
}

// firstAbs returns the first non-empty candidate as an absolute path, or
// the fallback when all are empty.
func firstAbs(fallback func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return fallback()
}
