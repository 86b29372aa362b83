// Package config loads rbsync settings from the user's config file.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the optional settings a config file can override. Command
// line flags take precedence over all of them.
type Config struct {
	Database string `koanf:"database"`  // rhythmdb.xml path
	Identity string `koanf:"identity"`  // POPM identity string stamped on written frames
	LogFile  string `koanf:"log_file"`  // logs go here instead of stderr
	LogLevel string `koanf:"log_level"` // debug, info, warn, error
}

// Load reads the config files in priority order (last wins). Missing files
// are fine; a present but malformed file is an error.
func Load() (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Database != "" {
		cfg.Database = expandPath(cfg.Database)
	}
	if cfg.LogFile != "" {
		cfg.LogFile = expandPath(cfg.LogFile)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/rbsync/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "rbsync", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// DefaultDatabasePath returns where Rhythmbox keeps its database, under
// the XDG data home.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.DataHome, "rhythmbox", "rhythmdb.xml")
}
