package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMorphServer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"localhost:8480", "http://localhost:8480"},
		{"http://localhost:8480/", "http://localhost:8480"},
		{"https://api.pulseboard.io", "https://api.pulseboard.io"},
		{"api.pulseboard.io///", "http://api.pulseboard.io"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MorphServer(tt.in), tt.in)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &Config{
		Version:   "v1",
		ServerURL: "http://localhost:8480",
	}
	require.NoError(t, cfg.WriteConfig(path))

	require.NoError(t, LoadConfig(path))
	loaded := GetConfig()
	require.NotNil(t, loaded)
	assert.Equal(t, "http://localhost:8480", loaded.GetServerURL())
	assert.Empty(t, loaded.GetToken())
	assert.True(t, loaded.GetTokenExpiry().IsZero())
}

func TestConfigSaveAndClearToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{Version: "v1", ServerURL: "http://localhost:8480"}
	require.NoError(t, cfg.WriteConfig(path))

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, cfg.SaveToken("tok-123", expiry))

	// The token survives a reload.
	require.NoError(t, LoadConfig(path))
	loaded := GetConfig()
	assert.Equal(t, "tok-123", loaded.GetToken())
	assert.Equal(t, expiry, loaded.GetTokenExpiry().UTC())

	require.NoError(t, loaded.ClearToken())
	require.NoError(t, LoadConfig(path))
	assert.Empty(t, GetConfig().GetToken())
	assert.True(t, GetConfig().GetTokenExpiry().IsZero())
}

func TestConfigEnvOverridesServerURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{Version: "v1", ServerURL: "http://localhost:8480"}
	require.NoError(t, cfg.WriteConfig(path))

	t.Setenv(EnvServerURL, "https://api.pulseboard.io")
	require.NoError(t, LoadConfig(path))
	assert.Equal(t, "https://api.pulseboard.io", GetConfig().GetServerURL())
}

func TestLoadConfigRequiresServerURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{Version: "v1"}
	require.NoError(t, cfg.WriteConfig(path))

	t.Setenv(EnvServerURL, "")
	err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server_url is required")
}

func TestAPIVersionCompatible(t *testing.T) {
	ok, err := apiVersionCompatible("0.1.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = apiVersionCompatible("0.1.9")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = apiVersionCompatible("0.2.0")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = apiVersionCompatible("not-a-version")
	assert.Error(t, err)
}
