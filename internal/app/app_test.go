package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wavecrest/internal/config"
	"Wavecrest/internal/domain"
	"Wavecrest/internal/logging"
)

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	return config.Config{
		Database: config.DatabaseConfig{Path: filepath.Join(dir, "data", "wavecrest.db")},
		Meta:     config.MetaConfig{BaseURL: "http://127.0.0.1:0", APIVersion: "v21.0"},
		Sync: config.SyncConfig{
			SeedFile: filepath.Join(dir, "seed.json"),
			RepoDir:  dir,
			SyncKey:  "k",
		},
	}
}

func TestNewWiresUseCases(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.False(t, a.Ads.IsConfigured())
	assert.False(t, a.Ads.IsLeadsConfigured())

	pull := a.Exporter.PullFromLive(context.Background())
	assert.NotEmpty(t, pull.Warning)
	assert.Empty(t, pull.Added)
}

func TestHandlerServesCompetitors(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Intel.Add(ctx, domain.Competitor{Name: "Innerwell", Handle: "innerwell"})
	require.NoError(t, err)
	a.Metrics.ObserveRun("scan")

	h := a.Handler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/competitors", nil)
	req.Header.Set("X-Sync-Key", "k")
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Competitor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "innerwell", got[0].Handle)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `wavecrest_sync_runs_total{job="scan"} 1`)
}

func TestServeStopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.Serve(ctx, "127.0.0.1:0", true))
}

func TestSeedPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "seed.json")
	got, err := SeedPath(config.SyncConfig{SeedFile: abs, RepoDir: "/elsewhere"})
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	repo := t.TempDir()
	got, err = SeedPath(config.SyncConfig{SeedFile: "tools/seed_competitors.json", RepoDir: repo})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo, "tools", "seed_competitors.json"), got)
}

func TestExportLandsInRepoDirOutsideWorkingDir(t *testing.T) {
	gitBin, err := exec.LookPath("git")
	if err != nil {
		t.Skip("git not installed")
	}
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Wavecrest")
	t.Setenv("GIT_AUTHOR_EMAIL", "ops@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Wavecrest")
	t.Setenv("GIT_COMMITTER_EMAIL", "ops@example.com")

	git := func(dir string, args ...string) string {
		t.Helper()
		cmd := exec.Command(gitBin, args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
		return string(out)
	}
	remote := filepath.Join(root, "remote.git")
	repo := filepath.Join(root, "repo")
	git(root, "init", "--bare", "--initial-branch=main", remote)
	git(root, "init", "--initial-branch=main", repo)
	git(repo, "remote", "add", "origin", remote)
	require.NoError(t, os.WriteFile(filepath.Join(repo, "README.md"), []byte("dashboard\n"), 0o644))
	git(repo, "add", "README.md")
	git(repo, "commit", "-m", "init")
	git(repo, "push", "origin", "main")

	workDir := filepath.Join(root, "elsewhere")
	require.NoError(t, os.MkdirAll(workDir, 0o755))
	t.Chdir(workDir)

	cfg := testConfig(t)
	cfg.Sync.RepoDir = repo
	cfg.Sync.SeedFile = "tools/seed_competitors.json"
	cfg.Sync.Remote = "origin"
	cfg.Sync.Branch = "main"
	cfg.Sync.CommitMessage = "Update competitor data"

	ctx := context.Background()
	a, err := New(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Intel.Add(ctx, domain.Competitor{Name: "Innerwell", Handle: "innerwell"})
	require.NoError(t, err)

	_, err = a.Exporter.ExportToJSON(ctx)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(repo, "tools", "seed_competitors.json"))
	assert.NoFileExists(t, filepath.Join(workDir, "tools", "seed_competitors.json"))

	pushed, err := a.Exporter.PushToGit(ctx)
	require.NoError(t, err)
	assert.True(t, pushed)
	assert.Contains(t, git(root, "--git-dir", remote, "log", "--oneline", "main"), "Update competitor data")
}
