package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(configPathEnv, "")
	t.Setenv(metaTokenEnv, "")
	t.Setenv(metaAccountEnv, "")
	t.Setenv(metaPageEnv, "")

	cfg := Load()

	assert.Equal(t, "data/wavecrest.db", cfg.Database.Path)
	assert.Equal(t, "v21.0", cfg.Meta.APIVersion)
	assert.Equal(t, 10, cfg.Instagram.MaxPosts)
	assert.Equal(t, "main", cfg.Sync.Branch)
	assert.False(t, cfg.Meta.Configured())
	assert.False(t, cfg.Meta.LeadsConfigured())
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "wavecrest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/other.db
meta:
  adAccountId: act_1
  timeout: 5s
sync:
  branch: release
scheduler:
  interval: 6h
  timezone: America/Los_Angeles
`), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(metaTokenEnv, " token ")
	t.Setenv(metaAccountEnv, "")
	t.Setenv(metaPageEnv, "")
	t.Setenv(liveURLEnv, "")
	t.Setenv(legacyLiveURLEnv, "https://live.example.com")
	t.Setenv(portEnv, "9090")

	cfg := Load()

	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "token", cfg.Meta.AccessToken)
	assert.Equal(t, 5*time.Second, cfg.Meta.Timeout)
	assert.True(t, cfg.Meta.Configured())
	assert.False(t, cfg.Meta.LeadsConfigured())
	assert.Equal(t, "release", cfg.Sync.Branch)
	assert.Equal(t, "origin", cfg.Sync.Remote)
	assert.Equal(t, "https://live.example.com", cfg.Sync.LiveURL)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 6*time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, "America/Los_Angeles", cfg.Scheduler.Location().String())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("META_PAGE_ID=page-9\n"), 0o600))

	t.Setenv(configPathEnv, "")
	t.Setenv(metaTokenEnv, "tok")
	t.Setenv(metaPageEnv, "")
	os.Unsetenv(metaPageEnv)

	cfg := Load()
	t.Cleanup(func() { os.Unsetenv(metaPageEnv) })

	assert.Equal(t, "page-9", cfg.Meta.PageID)
	assert.True(t, cfg.Meta.LeadsConfigured())
}
