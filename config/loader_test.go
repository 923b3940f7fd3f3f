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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToDefaultsWhenNoFileExists(t *testing.T) {
	cfg, err := Load(LoaderOptions{
		ConfigDir:   t.TempDir(),
		Environment: "development",
		SkipDotEnv:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Workers.PoolSize)
}

func TestLoadSetsEnvironmentFromOptions(t *testing.T) {
	tests := []string{"development", "staging", "production", "local"}

	for _, env := range tests {
		t.Run(env, func(t *testing.T) {
			cfg, err := Load(LoaderOptions{
				ConfigDir:   t.TempDir(),
				Environment: env,
				SkipDotEnv:  true,
			})
			require.NoError(t, err)
			assert.Equal(t, env, cfg.Environment)
		})
	}
}

func TestLoadPicksUpEnvironmentSpecificFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staging.yaml"), []byte("logging:\n  level: warn\n"), 0644))

	cfg, err := Load(LoaderOptions{
		ConfigDir:   dir,
		Environment: "staging",
		SkipDotEnv:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFallsBackFromEnvToDefaultToConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("logging:\n  level: error\n"), 0644))

	cfg, err := Load(LoaderOptions{
		ConfigDir:   dir,
		Environment: "development",
		SkipDotEnv:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	os.Setenv("WHISPER_LOG_LEVEL", "debug")
	os.Setenv("WHISPER_CONTACT_REQUIRED", "true")
	defer os.Unsetenv("WHISPER_LOG_LEVEL")
	defer os.Unsetenv("WHISPER_CONTACT_REQUIRED")

	cfg, err := Load(LoaderOptions{
		ConfigDir:   t.TempDir(),
		Environment: "development",
		SkipDotEnv:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Policy.ContactRequiredToSend)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "development.yaml"), []byte("logging:\n  level: chatty\n"), 0644))

	_, err := Load(LoaderOptions{
		ConfigDir:   dir,
		Environment: "development",
		SkipDotEnv:  true,
	})
	assert.Error(t, err)
}

func TestLoadRejectsNegativePoolSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "development.yaml"), []byte("workers:\n  pool_size: -1\n"), 0644))

	_, err := Load(LoaderOptions{
		ConfigDir:   dir,
		Environment: "development",
		SkipDotEnv:  true,
	})
	assert.Error(t, err)
}

func TestDefaultLoaderOptions(t *testing.T) {
	opts := DefaultLoaderOptions()

	assert.Equal(t, "config", opts.ConfigDir)
	assert.False(t, opts.SkipEnvSubstitution)
	assert.False(t, opts.SkipDotEnv)
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 4, cfg.Workers.PoolSize)
}

func TestMustLoadPanicsOnInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "development.yaml"), []byte("logging:\n  level: chatty\n"), 0644))

	assert.Panics(t, func() {
		MustLoad(LoaderOptions{ConfigDir: dir, Environment: "development", SkipDotEnv: true})
	})
}

func TestMustLoadReturnsConfigOnSuccess(t *testing.T) {
	cfg := MustLoad(LoaderOptions{ConfigDir: t.TempDir(), Environment: "development", SkipDotEnv: true})
	assert.Equal(t, "development", cfg.Environment)
}
