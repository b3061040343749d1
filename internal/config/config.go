// Package config loads the optional YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable paths and limits. Every field has a sane
// default; a missing config file is not an error.
type Config struct {
	HostsPath        string `yaml:"hostsPath"`
	PrefetchDir      string `yaml:"prefetchDir"`
	LogPath          string `yaml:"logPath"`
	MaxPrefetchFiles int    `yaml:"maxPrefetchFiles"`
}

// Default returns the platform defaults.
func Default() Config {
	return Config{
		HostsPath:        defaultHostsPath(),
		PrefetchDir:      defaultPrefetchDir(),
		LogPath:          filepath.Join(os.TempDir(), "studyguard.log"),
		MaxPrefetchFiles: 100,
	}
}

// Load reads the config at path, applying defaults for absent fields.
// An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.MaxPrefetchFiles <= 0 {
		cfg.MaxPrefetchFiles = 100
	}
	if cfg.HostsPath == "" {
		cfg.HostsPath = defaultHostsPath()
	}
	if cfg.PrefetchDir == "" {
		cfg.PrefetchDir = defaultPrefetchDir()
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(os.TempDir(), "studyguard.log")
	}
	return cfg, nil
}

func systemRoot() string {
	if root := os.Getenv("SystemRoot"); root != "" {
		return root
	}
	return `C:\Windows`
}

func defaultHostsPath() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(systemRoot(), "System32", "drivers", "etc", "hosts")
	}
	return "/etc/hosts"
}

func defaultPrefetchDir() string {
	return filepath.Join(systemRoot(), "Prefetch")
}
