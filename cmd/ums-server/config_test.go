package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPortalOptions(t *testing.T) {
	opts := PortalConfig{}.Options()
	require.Equal(t, "https://ums.lpu.in/lpuums", opts.BaseUrl)
	require.True(t, opts.BypassCloudflare)

	disabled := false
	opts = PortalConfig{
		BaseUrl:          "http://127.0.0.1:9000/lpuums",
		TimeoutSeconds:   5,
		BypassCloudflare: &disabled,
	}.Options()
	require.Equal(t, "http://127.0.0.1:9000/lpuums", opts.BaseUrl)
	require.Equal(t, 5*time.Second, opts.Timeout)
	require.False(t, opts.BypassCloudflare)
	require.True(t, opts.InsecureSkipVerify)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	err := os.WriteFile(path, []byte(`{
		// comments are allowed
		database: { url: "libsql://ums.example.turso.io" },
		cors_origins: ["https://ums-assist.example"],
	}`), 0644)
	require.NoError(t, err)

	t.Setenv("PORT", "8080")
	t.Setenv("UMS_DATABASE_AUTH_TOKEN", "secret-token")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 8080, config.Port)
	require.Equal(t, "libsql://ums.example.turso.io", config.Database.Url)
	require.Equal(t, "secret-token", config.Database.AuthToken)
	require.Equal(t, []string{"https://ums-assist.example"}, config.CorsOrigins)
}
