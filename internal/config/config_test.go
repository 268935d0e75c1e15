package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		World: WorldConfig{
			Path: "content/worlds/caves.yaml",
		},
		Telnet: TelnetConfig{
			Host:         "0.0.0.0",
			Port:         4000,
			ReadTimeout:  5 * time.Minute,
			WriteTimeout: 30 * time.Second,
			Width:        78,
		},
		Admin: AdminConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestAddrs(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "0.0.0.0:4000", cfg.Telnet.Addr())
	assert.Equal(t, "127.0.0.1:8080", cfg.Admin.Addr())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
world:
  path: worlds/other.yaml
  shared: true
session:
  inventory_capacity: 3
telnet:
  host: 127.0.0.1
  port: 4001
  read_timeout: 1m
  write_timeout: 10s
admin:
  enabled: false
logging:
  level: debug
  format: console
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "worlds/other.yaml", cfg.World.Path)
	assert.True(t, cfg.World.Shared)
	assert.Equal(t, 3, cfg.Session.InventoryCapacity)
	assert.Equal(t, 4001, cfg.Telnet.Port)
	assert.Equal(t, time.Minute, cfg.Telnet.ReadTimeout)
	assert.Equal(t, 78, cfg.Telnet.Width)
	assert.False(t, cfg.Admin.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "content/worlds/caves.yaml", cfg.World.Path)
	assert.False(t, cfg.World.Shared)
	assert.Equal(t, 0, cfg.Session.InventoryCapacity)
	assert.Equal(t, 4000, cfg.Telnet.Port)
	assert.True(t, cfg.Admin.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WANDERER_TELNET_PORT", "5555")
	t.Setenv("WANDERER_WORLD_SHARED", "true")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5555, cfg.Telnet.Port)
	assert.True(t, cfg.World.Shared)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateWorldPath(t *testing.T) {
	cfg := validConfig()
	cfg.World.Path = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "world.path")
}

func TestValidateInventoryCapacity(t *testing.T) {
	cfg := validConfig()
	cfg.Session.InventoryCapacity = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateTelnet(t *testing.T) {
	cfg := validConfig()
	cfg.Telnet.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Telnet.Width = 5
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Telnet.ReadTimeout = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestValidateAdmin(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Admin.Enabled = false
	assert.NoError(t, cfg.Validate(), "disabled admin port is not checked")

	cfg = validConfig()
	cfg.Admin.Host = cfg.Telnet.Host
	cfg.Admin.Port = cfg.Telnet.Port
	assert.Error(t, cfg.Validate())
}

func TestValidateCollectsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.World.Path = ""
	cfg.Telnet.Port = 0
	cfg.Logging.Level = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "world.path")
	assert.Contains(t, err.Error(), "telnet.port")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestPropertyValidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		cfg := validConfig()
		cfg.Telnet.Port = port
		cfg.Admin.Enabled = false
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid port %d rejected: %v", port, err)
		}
	})
}

func TestPropertyInvalidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(65536, 100000),
		).Draw(t, "port")
		cfg := validConfig()
		cfg.Telnet.Port = port
		if err := cfg.Validate(); err == nil {
			t.Fatalf("invalid port %d accepted", port)
		}
	})
}
