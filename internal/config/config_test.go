// File: internal/config/config_test.go
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "warn", cfg.Logger().Level)
	assert.Equal(t, "console", cfg.Logger().Format)
	assert.Equal(t, "toolshim", cfg.Logger().ServiceName)
	assert.Empty(t, cfg.Logger().LogFile)
	assert.Equal(t, "green", cfg.Logger().Colors.Info)
	assert.True(t, cfg.Dispatch().ExpandHome)
	assert.NoError(t, cfg.Validate())
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Invalid Level", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.LoggerCfg.Level = "chatty"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `level "chatty" is not a valid log level`)
	})

	t.Run("Invalid Format", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.LoggerCfg.Format = "xml"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "format must be one of json, console")
	})

	t.Run("Log File Needs Size", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.LoggerCfg.LogFile = "toolshim.log"
		cfg.LoggerCfg.MaxSize = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_size must be a positive integer")
	})
}

// -- Loading Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
logger:
  level: debug
  format: json
dispatch:
  expand_home: false
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logger().Level)
		assert.Equal(t, "json", cfg.Logger().Format)
		assert.False(t, cfg.Dispatch().ExpandHome)
		// Defaults survive a partial file.
		assert.Equal(t, "toolshim", cfg.Logger().ServiceName)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("logger.format", "yaml")

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestLoad(t *testing.T) {
	t.Run("Environment Overrides Defaults", func(t *testing.T) {
		t.Setenv("TOOLSHIM_LOGGER_LEVEL", "error")

		v := viper.New()
		SetDefaults(v)
		require.NoError(t, Load(v, ""))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Logger().Level)
	})

	t.Run("Reads Named File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "toolshim.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logger:\n  log_file: /tmp/toolshim.log\n"), 0o644))

		v := viper.New()
		SetDefaults(v)
		require.NoError(t, Load(v, path))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/toolshim.log", cfg.Logger().LogFile)
	})

	t.Run("Missing Named File", func(t *testing.T) {
		v := viper.New()
		err := Load(v, filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})
}
