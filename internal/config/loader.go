/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/substantialcattle5/naib/internal/constants"
)

// LoadConfig reads a yaml config file into a Config. Flags set by the CLI
// layer override the file afterwards; this only handles the file half.
func LoadConfig(configPath string) (*Config, error) {
	_, err := os.Stat(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration not found at %s", configPath)
		}
		return nil, fmt.Errorf("error accessing configuration: %w", err)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(configData, &config)
	if err != nil {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}

	return &config, nil
}

// SaveConfig writes the config back out as yaml.
func SaveConfig(configPath string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing configuration: %w", err)
	}

	if err := os.WriteFile(configPath, data, constants.StandardFilePerms); err != nil {
		return fmt.Errorf("error writing configuration: %w", err)
	}

	return nil
}
