// Package config loads and saves fsh's on-disk settings, adapted from
// the teacher's ~/.drime-shell/config.yaml (internal/config/config.go)
// to the fields an interactive POSIX-style shell actually needs:
// prompt theme, scrollback size, and the for-loop engine's default
// parallelism.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the persisted shape of ~/.fsh/config.yaml.
type Config struct {
	Theme           string `yaml:"theme"`
	HistorySize     int    `yaml:"history_size"`
	DefaultParallel int    `yaml:"default_parallel"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Theme:           "mocha",
		HistorySize:     1000,
		DefaultParallel: 0,
	}
}

// Dir returns ~/.fsh.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fsh"), nil
}

// Path returns ~/.fsh/config.yaml.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// HistoryPath returns ~/.fsh/history, the file chzyer/readline persists
// line history to.
func HistoryPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// Load reads ~/.fsh/config.yaml over the defaults. A missing file is
// not an error.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to ~/.fsh/config.yaml, creating the directory if
// needed.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	path, err := Path()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
