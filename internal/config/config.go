// Package config handles mm workspace configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WorkspaceDirName is the dot directory identifying an mm workspace.
const WorkspaceDirName = ".mm"

// ConfigFileName is the configuration file inside the workspace directory.
const ConfigFileName = "config.yaml"

// Config represents the contents of .mm/config.yaml.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Project  ProjectConfig  `yaml:"project"`
}

type DefaultsConfig struct {
	// Directory is the placement used by `mm new` when none is given.
	Directory string `yaml:"directory"`
	// Rank is the rank assigned by `mm new` when none is given.
	Rank string `yaml:"rank"`
}

type ProjectConfig struct {
	Name string `yaml:"name"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Defaults: DefaultsConfig{
			Directory: "permanent",
			Rank:      "m",
		},
		Project: ProjectConfig{
			Name: "notes",
		},
	}
}

// Load reads config.yaml from path and applies defaults for missing fields.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// FindWorkspaceDir locates the .mm directory.
// If path is provided, it is used directly.
// Otherwise it walks up from the current directory looking for .mm.
func FindWorkspaceDir(path string) (string, error) {
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("cannot access workspace directory %s: %w", path, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("workspace path is not a directory: %s", path)
		}
		return path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot get current directory: %w", err)
	}

	dir := cwd
	for {
		wsDir := filepath.Join(dir, WorkspaceDirName)
		info, err := os.Stat(wsDir)
		if err == nil && info.IsDir() {
			return wsDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found (searched from %s to /)", WorkspaceDirName, cwd)
		}
		dir = parent
	}
}
