package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CLIConfig represents the admin CLI configuration file
type CLIConfig struct {
	ServerURL  string `yaml:"server_url"`
	GatewayURL string `yaml:"gateway_url"`
	AnonKey    string `yaml:"anon_key"`
}

// defaultConfigDir returns the per-user directory holding the CLI's config
// and session files.
func defaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, "spicehaven"), nil
}

// loadCLIConfig loads the configuration from configPath. A missing file is
// not an error; flags and defaults cover everything it would have set.
func loadCLIConfig(configPath string) (*CLIConfig, error) {
	config := &CLIConfig{
		ServerURL: "http://localhost:8080",
	}

	file, err := os.Open(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return config, nil
}
