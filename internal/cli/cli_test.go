package cli

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/slingshot/slingshot/internal/models"
	"github.com/slingshot/slingshot/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var initOnce sync.Once

func initCLI() {
	initOnce.Do(InitRoot)
}

func writeTestConfig(t *testing.T, dbPath string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "version: \"1.0\"\nstore:\n  driver: sqlite\n  path: " + dbPath + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	initCLI()

	RootCmd.SetArgs([]string{"version"})
	require.NoError(t, RootCmd.Execute())
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, "0.1.0", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestCredentialsShowAndDelete(t *testing.T) {
	initCLI()

	dbPath := filepath.Join(t.TempDir(), "slingshot.db")
	cfgPath := writeTestConfig(t, dbPath)

	seed, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, seed.SetCredential(&models.Credential{
		UserID:      "alice",
		Provider:    models.ProviderGoogle,
		AccessToken: "ya29.secret",
	}))
	require.NoError(t, seed.Close())

	RootCmd.SetArgs([]string{"credentials", "show", "--user", "alice", "--config", cfgPath, "--db", dbPath})
	require.NoError(t, RootCmd.Execute())

	RootCmd.SetArgs([]string{"credentials", "delete", "--user", "alice", "--config", cfgPath, "--db", dbPath})
	require.NoError(t, RootCmd.Execute())

	RootCmd.SetArgs([]string{"credentials", "show", "--user", "alice", "--config", cfgPath, "--db", dbPath})
	assert.Error(t, RootCmd.Execute())
}

func TestCredentialsShowMissing(t *testing.T) {
	initCLI()

	dbPath := filepath.Join(t.TempDir(), "slingshot.db")
	cfgPath := writeTestConfig(t, dbPath)

	RootCmd.SetArgs([]string{"credentials", "show", "--user", "nobody", "--config", cfgPath, "--db", dbPath})
	assert.Error(t, RootCmd.Execute())
}
