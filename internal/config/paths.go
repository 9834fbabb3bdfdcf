package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory
// (~/.errandsync). This is the source of truth for where global state lives.
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".errandsync"), nil
}

// GetSharedStorePath returns the shared namespace directory every context of
// this profile reads and writes.
// Resolution order (first match wins):
// 1. Explicit config via "store.path" (Viper/env/flag)
// 2. Local project directory: .errandsync/shared (if exists)
// 3. XDG_DATA_HOME/errandsync/shared (if XDG_DATA_HOME is set)
// 4. Global fallback: ~/.errandsync/shared
func GetSharedStorePath() string {
	if path := viper.GetString("store.path"); path != "" {
		return path
	}

	localShared := filepath.Join(".errandsync", "shared")
	if info, err := os.Stat(localShared); err == nil && info.IsDir() {
		return localShared
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "errandsync", "shared")
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return filepath.Join(".errandsync", "shared")
	}
	return filepath.Join(dir, "shared")
}

// GetArchivePath returns the location of the archive database, honoring an
// explicit "archive.path" override.
func GetArchivePath() string {
	if path := viper.GetString("archive.path"); path != "" {
		return path
	}
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return filepath.Join(".errandsync", "archive.db")
	}
	return filepath.Join(dir, "archive.db")
}
