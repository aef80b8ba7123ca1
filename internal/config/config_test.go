package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
telnet:
  host: 127.0.0.1
  port: 4040
  read_timeout: 2m
abilities:
  file: data/abilities.abl
scripting:
  dir: data/scripts
  instruction_limit: 50000
content:
  mobs_file: data/mobs.yaml
  objects_file: data/objects.yaml
logging:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Telnet.Host)
	assert.Equal(t, 4040, cfg.Telnet.Port)
	assert.Equal(t, "127.0.0.1:4040", cfg.Telnet.Addr())
	assert.Equal(t, 2*time.Minute, cfg.Telnet.ReadTimeout)
	assert.Equal(t, "data/abilities.abl", cfg.Abilities.File)
	assert.Equal(t, "data/scripts", cfg.Scripting.Dir)
	assert.Equal(t, 50000, cfg.Scripting.InstructionLimit)
	assert.Equal(t, "data/mobs.yaml", cfg.Content.MobsFile)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "telnet:\n  host: localhost\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Telnet.Port)
	assert.Equal(t, 5*time.Minute, cfg.Telnet.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Telnet.WriteTimeout)
	assert.Equal(t, "content/abilities.abl", cfg.Abilities.File)
	assert.Equal(t, "", cfg.Scripting.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RAVENMUD_TELNET_PORT", "4999")
	path := writeConfig(t, "telnet:\n  host: localhost\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4999, cfg.Telnet.Port)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Telnet:    TelnetConfig{Host: "0.0.0.0", Port: 4000},
		Abilities: AbilitiesConfig{File: "abilities.abl"},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty host", func(c *Config) { c.Telnet.Host = "" }, "telnet.host"},
		{"port too low", func(c *Config) { c.Telnet.Port = 0 }, "telnet.port"},
		{"port too high", func(c *Config) { c.Telnet.Port = 70000 }, "telnet.port"},
		{"negative read timeout", func(c *Config) { c.Telnet.ReadTimeout = -time.Second }, "read_timeout"},
		{"empty abilities file", func(c *Config) { c.Abilities.File = "" }, "abilities.file"},
		{"negative instruction limit", func(c *Config) { c.Scripting.InstructionLimit = -1 }, "instruction_limit"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
