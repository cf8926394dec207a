package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TC_SOA_MOCK", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.SOA.Timeout)
	assert.Equal(t, []string{"Authorization", "X-Siemens-Session-ID", "X-Tc-Session"}, cfg.SOA.Headers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
soa:
  endpoint: "https://tc.example.com/tc/JsonRestServices"
  timeout: "30s"
log:
  level: "debug"
server:
  transport: "http"
  address: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://tc.example.com/tc/JsonRestServices", cfg.SOA.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.SOA.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, ":9090", cfg.Server.Address)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("soa:\n  endpoint: \"https://file.example.com\"\n"), 0o644))

	t.Setenv("TC_SOA_ENDPOINT", "https://env.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.SOA.Endpoint)
}

func TestLoad_RequiresEndpointUnlessMock(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soa.endpoint")

	t.Setenv("TC_SOA_MOCK", "true")
	_, err = Load("")
	assert.NoError(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			SOA:    SOAConfig{Endpoint: "https://tc.example.com", Timeout: time.Minute},
			Server: ServerConfig{Transport: "stdio"},
		}
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.SOA.Timeout = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Server.Transport = "websocket"
	assert.Error(t, c.Validate())

	c = base()
	c.Server.Transport = "http"
	c.Server.Address = ""
	assert.Error(t, c.Validate())

	c = base()
	c.SOA.Endpoint = ""
	c.SOA.Mock = true
	assert.NoError(t, c.Validate())
}
