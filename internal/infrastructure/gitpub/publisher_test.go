package gitpub

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wavecrest/internal/config"
	"Wavecrest/internal/logging"
)

type fakeRunner struct {
	calls  []string
	status string
	failOn string
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (string, error) {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)
	if f.failOn != "" && len(args) > 0 && args[0] == f.failOn {
		return "", errors.New("exit status 1")
	}
	if len(args) > 0 && args[0] == "status" {
		return f.status, nil
	}
	return "", nil
}

func testConfig() config.SyncConfig {
	return config.SyncConfig{
		RepoDir:       "/repo",
		Remote:        "origin",
		Branch:        "main",
		CommitMessage: "Update competitor data from local scrape",
	}
}

func TestPublishSkipsUnchangedFile(t *testing.T) {
	runner := &fakeRunner{}
	p := NewPublisher(testConfig(), runner, logging.Discard())

	pushed, err := p.Publish(context.Background(), "tools/seed_competitors.json")
	require.NoError(t, err)
	assert.False(t, pushed)
	assert.Equal(t, []string{"git status --porcelain -- tools/seed_competitors.json"}, runner.calls)
}

func TestPublishCommitsAndPushes(t *testing.T) {
	runner := &fakeRunner{status: "?? tools/seed_competitors.json\n"}
	p := NewPublisher(testConfig(), runner, logging.Discard())

	pushed, err := p.Publish(context.Background(), "/repo/tools/seed_competitors.json")
	require.NoError(t, err)
	assert.True(t, pushed)
	assert.Equal(t, []string{
		"git status --porcelain -- tools/seed_competitors.json",
		"git add -- tools/seed_competitors.json",
		"git commit -m Update competitor data from local scrape -- tools/seed_competitors.json",
		"git push origin main",
	}, runner.calls)
}

func TestPublishStopsOnFailure(t *testing.T) {
	runner := &fakeRunner{status: " M tools/seed_competitors.json", failOn: "commit"}
	p := NewPublisher(testConfig(), runner, logging.Discard())

	pushed, err := p.Publish(context.Background(), "tools/seed_competitors.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git commit")
	assert.False(t, pushed)
	assert.Len(t, runner.calls, 3)
}

func TestPublishRejectsOutsidePath(t *testing.T) {
	p := NewPublisher(testConfig(), &fakeRunner{}, logging.Discard())
	_, err := p.Publish(context.Background(), "/elsewhere/seed.json")
	assert.Error(t, err)
}
