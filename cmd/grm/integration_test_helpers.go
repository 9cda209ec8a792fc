//go:build integration

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/log"
	"github.com/grm-sh/grm/internal/output"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// testContext builds a command context with a quiet logger, a captured
// stdout printer and a resolved config pointing at root.
func testContext(t *testing.T, root string) (context.Context, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	ctx := context.Background()
	ctx = log.WithLogger(ctx, log.New(io.Discard, false, false))
	ctx = output.WithPrinter(ctx, &stdout)
	ctx = config.WithConfig(ctx, config.Config{Root: root, Source: config.SourceEnv})
	return ctx, &stdout
}

// runGitCommand runs a git command and returns output.
func runGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to run %v: %v\n%s", args, err, out)
	}
	return string(out)
}

// setupTestRemote creates a bare origin with an initial commit on main and
// redirects https://github.test/<user>/<repo> to it via an insteadOf rewrite
// in a private global git config. Commands can then clone layout-compatible
// URLs without network access.
func setupTestRemote(t *testing.T, user, repo string) (url string) {
	t.Helper()

	base := resolvePath(t, t.TempDir())

	seed := filepath.Join(base, "seed")
	if err := os.MkdirAll(seed, 0755); err != nil {
		t.Fatalf("mkdir seed: %v", err)
	}
	runGitCommand(t, seed, "git", "init", "-b", "main")
	runGitCommand(t, seed, "git", "config", "user.email", "test@test.com")
	runGitCommand(t, seed, "git", "config", "user.name", "Test User")
	runGitCommand(t, seed, "git", "config", "commit.gpgsign", "false")
	if err := os.WriteFile(filepath.Join(seed, "README.md"), []byte("# "+repo+"\n"), 0644); err != nil {
		t.Fatalf("write README: %v", err)
	}
	runGitCommand(t, seed, "git", "add", "README.md")
	runGitCommand(t, seed, "git", "commit", "-m", "Initial commit")

	origin := filepath.Join(base, repo+".git")
	runGitCommand(t, base, "git", "clone", "--bare", seed, origin)
	runGitCommand(t, origin, "git", "symbolic-ref", "HEAD", "refs/heads/main")

	gitconfig := filepath.Join(base, "gitconfig")
	content := "[user]\n\temail = test@test.com\n\tname = Test User\n" +
		"[commit]\n\tgpgsign = false\n" +
		"[url \"" + origin + "\"]\n\tinsteadOf = https://github.test/" + user + "/" + repo + "\n"
	if err := os.WriteFile(gitconfig, []byte(content), 0644); err != nil {
		t.Fatalf("write gitconfig: %v", err)
	}
	t.Setenv("GIT_CONFIG_GLOBAL", gitconfig)

	return "https://github.test/" + user + "/" + repo
}
