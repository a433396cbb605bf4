// Package config loads the tool configuration from a YAML file, layered
// over built-in defaults.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backend locates the external link backend.
type Backend struct {
	// Binary is the backend executable name or path.
	Binary string `yaml:"binary"`
	// MenuDB is the link database file used for menu hierarchies.
	MenuDB string `yaml:"menu_db"`
	// AuthDB is the link database file used for auth entities.
	AuthDB string `yaml:"auth_db"`
}

// Config is the full tool configuration.
type Config struct {
	Backend Backend `yaml:"backend"`
	// DataDir is the root directory for JSON document namespaces.
	DataDir string `yaml:"data_dir"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Backend: Backend{
			Binary: "clink",
			MenuDB: "menu.links",
			AuthDB: "auth.links",
		},
		DataDir: "data",
	}
}

// Load reads a YAML configuration file over the defaults. An empty path or
// an absent file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	// Strict field validation catches typos like "data_dirs:".
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	// Relative paths resolve against the config file's directory.
	base := filepath.Dir(path)
	cfg.Backend.MenuDB = resolve(base, cfg.Backend.MenuDB)
	cfg.Backend.AuthDB = resolve(base, cfg.Backend.AuthDB)
	cfg.DataDir = resolve(base, cfg.DataDir)
	return cfg, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
