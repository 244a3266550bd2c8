package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/slingshot/slingshot/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
version: "1"
server:
  host: 127.0.0.1
  http_port: 9090
api:
  auth:
    enabled: true
    keys:
      sk-test-key: user-1
google:
  client_id: client-id
  client_secret: client-secret
  redirect_url: http://localhost:9090/auth/google/callback
  frontend_url: http://localhost:5173
store:
  driver: memory
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("version: \"1\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8318, cfg.Server.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 1000, cfg.API.RateLimit.RequestsPerMinute)
	assert.Equal(t, 100, cfg.API.RateLimit.Burst)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Store.StateTTL)
	assert.Equal(t, 30, cfg.Store.RetentionDays)
	assert.Equal(t, DefaultGoogleScopes, cfg.Google.Scopes)
}

func TestParseValidConfig(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "user-1", cfg.API.Auth.Keys["sk-test-key"])
	assert.Equal(t, "memory", cfg.Store.Driver)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("version: [broken"))

	var parseErr *apperrors.ErrConfigParse
	assert.ErrorAs(t, err, &parseErr)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing version",
			yaml: "server:\n  host: localhost\n",
			want: "version is required",
		},
		{
			name: "auth enabled without keys",
			yaml: "version: \"1\"\napi:\n  auth:\n    enabled: true\n",
			want: "keys is required",
		},
		{
			name: "bad store driver",
			yaml: "version: \"1\"\nstore:\n  driver: postgres\n",
			want: "driver must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoaderEnvSubstitution(t *testing.T) {
	t.Setenv("SLINGSHOT_TEST_CLIENT_ID", "env-client-id")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "version: \"1\"\ngoogle:\n  client_id: ${SLINGSHOT_TEST_CLIENT_ID}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	loader := NewLoader(path)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "env-client-id", cfg.Google.ClientID)
	assert.Same(t, cfg, loader.Get())
}

func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := loader.Load()

	var notFound *apperrors.ErrConfigNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestLoaderReloadCallsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\n"), 0644))

	loader := NewLoader(path)
	_, err := loader.Load()
	require.NoError(t, err)

	called := make(chan *Config, 1)
	loader.SetOnChange(func(c *Config) { called <- c })

	require.NoError(t, os.WriteFile(path, []byte("version: \"2\"\n"), 0644))
	cfg, err := loader.Reload()
	require.NoError(t, err)

	select {
	case got := <-called:
		assert.Equal(t, "2", got.Version)
		assert.Equal(t, cfg, got)
	default:
		t.Fatal("onChange was not called")
	}
}

func TestLoaderWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\n"), 0644))

	loader := NewLoader(path)
	_, err := loader.Load()
	require.NoError(t, err)

	changed := make(chan *Config, 1)
	loader.SetOnChange(func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})

	require.NoError(t, loader.StartWatcher(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte("version: \"3\"\n"), 0644))

	select {
	case got := <-changed:
		assert.Equal(t, "3", got.Version)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not pick up the change")
	}
}
