// Copyright (C) 2025 whisper-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config loads the policy flags and ambient runtime settings
// (logging, worker pool size) from YAML, with ${VAR} environment
// substitution layered on top.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/whisper-project/whisper/policy"
)

// Config is the top-level, on-disk configuration shape.
type Config struct {
	Environment string        `yaml:"environment" json:"environment"`
	Policy      PolicyConfig  `yaml:"policy" json:"policy"`
	Logging     LoggingConfig `yaml:"logging" json:"logging"`
	Workers     WorkersConfig `yaml:"workers" json:"workers"`
}

// PolicyConfig mirrors policy.Flags for YAML/JSON unmarshalling.
type PolicyConfig struct {
	ContactRequiredToSend       bool `yaml:"contact_required_to_send" json:"contact_required_to_send"`
	RequireSignatureForVerified bool `yaml:"require_signature_for_verified" json:"require_signature_for_verified"`
	AutoArchiveOnRotation        bool `yaml:"auto_archive_on_rotation" json:"auto_archive_on_rotation"`
	BiometricGatedSigning        bool `yaml:"biometric_gated_signing" json:"biometric_gated_signing"`
}

// ToFlags converts the on-disk policy shape to policy.Flags.
func (p PolicyConfig) ToFlags() policy.Flags {
	return policy.Flags{
		ContactRequiredToSend:       p.ContactRequiredToSend,
		RequireSignatureForVerified: p.RequireSignatureForVerified,
		AutoArchiveOnRotation:       p.AutoArchiveOnRotation,
		BiometricGatedSigning:       p.BiometricGatedSigning,
	}
}

// LoggingConfig controls the pipeline's debug diagnostics.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// WorkersConfig sizes the pipeline's worker pool.
type WorkersConfig struct {
	PoolSize int `yaml:"pool_size" json:"pool_size"`
}

// LoadFromFile reads and parses a YAML config file at path.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	SubstituteEnvVarsInConfig(cfg)
	setDefaults(cfg)
	return cfg, nil
}

// SaveToFile writes cfg to path as YAML.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// setDefaults fills in zero-valued fields after parsing.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Workers.PoolSize == 0 {
		cfg.Workers.PoolSize = 4
	}
}
