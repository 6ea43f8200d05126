package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BrewMyTech/grok-mcp/grok"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GROK_API_KEY", "")
	t.Setenv("GROK_API_BASE_URL", "")
	t.Setenv("GROK_MCP_TIMEOUT", "")

	c, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "", c.APIKey)
	assert.Equal(t, grok.DefaultBaseURL, c.BaseURL)
	assert.Equal(t, time.Duration(0), c.Timeout)
	assert.Equal(t, time.Duration(0), c.Grok().Timeout)
	assert.Equal(t, "localhost:9090", c.Addr)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GROK_API_KEY", "xai-secret")
	t.Setenv("GROK_API_BASE_URL", "https://proxy.example.test/v1")
	t.Setenv("GROK_MCP_TIMEOUT", "45s")
	t.Setenv("GROK_MCP_ADDR", ":8080")
	t.Setenv("GROK_MCP_SECRET", "jwt-secret")

	c, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "xai-secret", c.APIKey)
	assert.Equal(t, "https://proxy.example.test/v1", c.BaseURL)
	assert.Equal(t, 45*time.Second, c.Timeout)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "jwt-secret", c.Secret)

	g := c.Grok()
	assert.Equal(t, "xai-secret", g.APIKey)
	assert.Equal(t, 45*time.Second, g.Timeout)
}

func TestLoad_FileThenEnv(t *testing.T) {
	t.Setenv("GROK_API_KEY", "")
	t.Setenv("GROK_MCP_ADDR", ":7000")

	path := filepath.Join(t.TempDir(), "grok-mcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: from-file\naddr: \":6000\"\nlog_level: debug\n"), 0o600))

	v := New()
	require.NoError(t, ReadFile(v, path))
	c, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "from-file", c.APIKey)
	assert.Equal(t, ":7000", c.Addr)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestReadFile_Missing(t *testing.T) {
	assert.NoError(t, ReadFile(New(), ""))
	assert.Error(t, ReadFile(New(), filepath.Join(t.TempDir(), "absent.yaml")))
}
