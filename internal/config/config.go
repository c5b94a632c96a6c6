/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package config

import (
	"fmt"
	"path/filepath"

	"github.com/substantialcattle5/naib/internal/constants"
)

// Config carries every knob a run needs. It is built once by the CLI layer,
// validated, and then passed by value into the component constructors.
// Nothing mutates it after Normalize.
type Config struct {
	Root           string   `yaml:"root"`
	ExcludePaths   []string `yaml:"exclude_paths,omitempty"`
	ExcludeGlobs   []string `yaml:"exclude_globs,omitempty"`
	SkipExtensions []string `yaml:"skip_extensions,omitempty"`
	MinSize        int64    `yaml:"min_size"`
	MaxSize        int64    `yaml:"max_size"`
	Workers        int      `yaml:"workers"`
	Mode           string   `yaml:"mode"`
	Apply          bool     `yaml:"apply"`
	Confirm        bool     `yaml:"confirm"`
	QuarantineRoot string   `yaml:"quarantine_root,omitempty"`
	LogDir         string   `yaml:"log_dir,omitempty"`
	HashAlgorithm  string   `yaml:"hash_algorithm,omitempty"`
	IOLimit        string   `yaml:"io_limit,omitempty"`
	Verbose        bool     `yaml:"verbose"`
	Quiet          bool     `yaml:"quiet"`
}

// ConfigurationError is fatal: it is raised before any filesystem mutation
// and aborts the run.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// Normalize resolves the root to an absolute path and fills defaults for
// everything the caller left unset.
func (c *Config) Normalize() error {
	if c.Root != "" {
		abs, err := filepath.Abs(c.Root)
		if err != nil {
			return fmt.Errorf("failed to resolve root path: %v", err)
		}
		c.Root = abs
	}

	if c.Workers <= 0 {
		c.Workers = constants.DefaultWorkers
	}
	if c.MaxSize <= 0 {
		c.MaxSize = constants.DefaultMaxSize
	}
	if c.Mode == "" {
		c.Mode = constants.ModeQuarantine
	}
	if c.HashAlgorithm == "" {
		c.HashAlgorithm = constants.HashAlgorithmSHA256
	}
	if c.QuarantineRoot == "" && c.Root != "" {
		c.QuarantineRoot = filepath.Join(c.Root, constants.QuarantineDirName)
	}
	if c.LogDir == "" && c.Root != "" {
		c.LogDir = filepath.Join(c.Root, constants.LogDirName)
	}

	for i, p := range c.ExcludePaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve exclude path %q: %v", p, err)
		}
		c.ExcludePaths[i] = abs
	}

	return nil
}

// Validate enforces the run contract. Every violation here is fatal and
// must surface before a single file is touched.
func (c *Config) Validate() error {
	if c.Root == "" {
		return &ConfigurationError{Reason: "root path is required"}
	}

	switch c.Mode {
	case constants.ModeReport, constants.ModeQuarantine, constants.ModeDelete:
	default:
		return &ConfigurationError{Reason: fmt.Sprintf("unknown mode %q (want report, quarantine or delete)", c.Mode)}
	}

	// Delete mode only ever mutates when both gates are asserted.
	if c.Mode == constants.ModeDelete && c.Apply && !c.Confirm {
		return &ConfigurationError{Reason: "delete mode with --apply requires --confirm"}
	}

	if c.MinSize < 0 {
		return &ConfigurationError{Reason: "min size cannot be negative"}
	}
	if c.MaxSize > 0 && c.MinSize > c.MaxSize {
		return &ConfigurationError{Reason: fmt.Sprintf("min size %d exceeds max size %d", c.MinSize, c.MaxSize)}
	}

	switch c.HashAlgorithm {
	case "", constants.HashAlgorithmSHA256, constants.HashAlgorithmBLAKE3:
	default:
		return &ConfigurationError{Reason: fmt.Sprintf("unsupported hash algorithm %q", c.HashAlgorithm)}
	}

	return nil
}
