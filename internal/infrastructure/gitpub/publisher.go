package gitpub

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"Wavecrest/internal/config"
	"Wavecrest/internal/ports"
)

// Runner executes a command in dir and returns its standard output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args; stderr is folded into the returned error.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Publisher commits a file in a git work tree and pushes it.
type Publisher struct {
	repoDir string
	remote  string
	branch  string
	message string
	runner  Runner
	logger  *slog.Logger
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher builds a publisher; a nil runner uses ExecRunner.
func NewPublisher(cfg config.SyncConfig, runner Runner, logger *slog.Logger) *Publisher {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	dir := cfg.RepoDir
	if dir == "" {
		dir = "."
	}
	return &Publisher{
		repoDir: dir,
		remote:  cfg.Remote,
		branch:  cfg.Branch,
		message: cfg.CommitMessage,
		runner:  runner,
		logger:  logger.With("component", "gitpub"),
	}
}

// Publish stages, commits and pushes path. It reports false and runs nothing
// else when git sees no change to the file, tracked or not.
func (p *Publisher) Publish(ctx context.Context, path string) (bool, error) {
	rel, err := p.relative(path)
	if err != nil {
		return false, err
	}

	status, err := p.git(ctx, "status", "--porcelain", "--", rel)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(status) == "" {
		p.logger.Debug("no changes", "file", rel)
		return false, nil
	}

	if _, err := p.git(ctx, "add", "--", rel); err != nil {
		return false, err
	}
	if _, err := p.git(ctx, "commit", "-m", p.message, "--", rel); err != nil {
		return false, err
	}
	if _, err := p.git(ctx, "push", p.remote, p.branch); err != nil {
		return false, err
	}

	p.logger.Info("pushed", "file", rel, "remote", p.remote, "branch", p.branch)
	return true, nil
}

func (p *Publisher) git(ctx context.Context, args ...string) (string, error) {
	out, err := p.runner.Run(ctx, p.repoDir, "git", args...)
	if err != nil {
		return out, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

func (p *Publisher) relative(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(filepath.Clean(path)), nil
	}
	root, err := filepath.Abs(p.repoDir)
	if err != nil {
		return "", fmt.Errorf("resolve repo dir: %w", err)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside repository %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}
