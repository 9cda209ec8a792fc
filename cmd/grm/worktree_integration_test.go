//go:build integration

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestWorktreeFlow walks the whole lifecycle against a real repository.
//
// Scenario: Clone, split a branch, share a file, unshare it, share again,
// isolate it in the split worktree, remove the worktree
// Expected: Links and store content behave as documented at every step
func TestWorktreeFlow(t *testing.T) {
	// Not parallel - modifies GIT_CONFIG_GLOBAL and the working directory

	url := setupTestRemote(t, "acme", "widget")
	root := resolvePath(t, t.TempDir())

	ctx, _ := testContext(t, root)
	clone := newCloneCmd()
	clone.SetContext(ctx)
	clone.SetArgs([]string{url})
	if err := clone.Execute(); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	mainDir := filepath.Join(root, "github.test", "acme", "widget+main")
	featureDir := filepath.Join(root, "github.test", "acme", "widget+feature", "x")
	store := filepath.Join(root, ".shared", "github.test", "acme", "widget", ".env")

	// Split a hierarchical branch from inside the main worktree.
	t.Chdir(mainDir)
	ctx, stdout := testContext(t, root)
	split := newWorktreeSplitCmd()
	split.SetContext(ctx)
	split.SetArgs([]string{"feature/x"})
	if err := split.Execute(); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != featureDir {
		t.Errorf("split stdout = %q, want %q", got, featureDir)
	}
	branch := strings.TrimSpace(runGitCommand(t, featureDir, "git", "rev-parse", "--abbrev-ref", "HEAD"))
	if branch != "feature/x" {
		t.Errorf("split worktree branch = %q, want %q", branch, "feature/x")
	}

	// Share a file from the main worktree.
	if err := os.WriteFile(filepath.Join(mainDir, ".env"), []byte("SECRET=1"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	ctx, _ = testContext(t, root)
	shareCmd := newWorktreeShareCmd()
	shareCmd.SetContext(ctx)
	shareCmd.SetArgs([]string{".env"})
	if err := shareCmd.Execute(); err != nil {
		t.Fatalf("share failed: %v", err)
	}
	if data, err := os.ReadFile(store); err != nil || string(data) != "SECRET=1" {
		t.Fatalf("store content = %q, %v; want SECRET=1", data, err)
	}
	for _, dir := range []string{mainDir, featureDir} {
		info, err := os.Lstat(filepath.Join(dir, ".env"))
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			t.Errorf("%s/.env should be a symlink (err=%v)", dir, err)
		}
	}

	// Unshare removes links, keeps the store.
	ctx, _ = testContext(t, root)
	unshare := newWorktreeUnshareCmd()
	unshare.SetContext(ctx)
	unshare.SetArgs([]string{".env"})
	if err := unshare.Execute(); err != nil {
		t.Fatalf("unshare failed: %v", err)
	}
	for _, dir := range []string{mainDir, featureDir} {
		if _, err := os.Lstat(filepath.Join(dir, ".env")); !os.IsNotExist(err) {
			t.Errorf("%s/.env still present after unshare", dir)
		}
	}
	if _, err := os.Stat(store); err != nil {
		t.Errorf("store entry removed by unshare: %v", err)
	}

	// Unsharing a path that was never shared is a no-op, not an error.
	ctx, _ = testContext(t, root)
	unshare = newWorktreeUnshareCmd()
	unshare.SetContext(ctx)
	unshare.SetArgs([]string{"missing.txt"})
	if err := unshare.Execute(); err != nil {
		t.Fatalf("unshare of unshared path = %v, want nil", err)
	}

	// Re-share restores the links from the canonical copy.
	ctx, _ = testContext(t, root)
	shareCmd = newWorktreeShareCmd()
	shareCmd.SetContext(ctx)
	shareCmd.SetArgs([]string{".env"})
	if err := shareCmd.Execute(); err != nil {
		t.Fatalf("re-share failed: %v", err)
	}
	if data, err := os.ReadFile(filepath.Join(featureDir, ".env")); err != nil || string(data) != "SECRET=1" {
		t.Fatalf("re-shared .env reads %q, %v; want canonical content", data, err)
	}

	// Isolate in the feature worktree only.
	t.Chdir(featureDir)
	ctx, _ = testContext(t, root)
	isolate := newWorktreeIsolateCmd()
	isolate.SetContext(ctx)
	isolate.SetArgs([]string{".env"})
	if err := isolate.Execute(); err != nil {
		t.Fatalf("isolate failed: %v", err)
	}
	info, err := os.Lstat(filepath.Join(featureDir, ".env"))
	if err != nil || info.Mode()&os.ModeSymlink != 0 {
		t.Errorf("feature .env should be a regular copy after isolate (err=%v)", err)
	}
	if info, err := os.Lstat(filepath.Join(mainDir, ".env")); err != nil || info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("main .env should still be a symlink (err=%v)", err)
	}

	// The isolated copy is untracked, so removal needs force.
	t.Chdir(mainDir)
	ctx, _ = testContext(t, root)
	remove := newWorktreeRemoveCmd()
	remove.SetContext(ctx)
	remove.SetArgs([]string{"feature/x"})
	if err := remove.Execute(); err == nil {
		t.Fatal("remove of dirty worktree = nil, want error")
	}

	ctx, _ = testContext(t, root)
	remove = newWorktreeRemoveCmd()
	remove.SetContext(ctx)
	remove.SetArgs([]string{"feature/x", "-f"})
	if err := remove.Execute(); err != nil {
		t.Fatalf("remove -f failed: %v", err)
	}
	if _, err := os.Stat(featureDir); !os.IsNotExist(err) {
		t.Error("feature worktree still on disk after remove")
	}
}

// TestWorktreeShare_ConflictNeedsForce tests the overwrite guard.
//
// Scenario: Another worktree has its own copy at the shared path and stdin
// is not a terminal
// Expected: share refuses without --force and overwrites with it
func TestWorktreeShare_ConflictNeedsForce(t *testing.T) {
	// Not parallel - modifies GIT_CONFIG_GLOBAL and the working directory

	url := setupTestRemote(t, "acme", "widget")
	root := resolvePath(t, t.TempDir())

	ctx, _ := testContext(t, root)
	clone := newCloneCmd()
	clone.SetContext(ctx)
	clone.SetArgs([]string{url})
	if err := clone.Execute(); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	mainDir := filepath.Join(root, "github.test", "acme", "widget+main")
	t.Chdir(mainDir)

	ctx, _ = testContext(t, root)
	split := newWorktreeSplitCmd()
	split.SetContext(ctx)
	split.SetArgs([]string{"dev"})
	if err := split.Execute(); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	devDir := filepath.Join(root, "github.test", "acme", "widget+dev")

	if err := os.WriteFile(filepath.Join(mainDir, ".env"), []byte("theirs"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(devDir, ".env"), []byte("mine"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, _ = testContext(t, root)
	shareCmd := newWorktreeShareCmd()
	shareCmd.SetContext(ctx)
	shareCmd.SetArgs([]string{".env"})
	if err := shareCmd.Execute(); err == nil {
		t.Fatal("share with conflicts and no TTY = nil, want error")
	}
	if data, _ := os.ReadFile(filepath.Join(devDir, ".env")); string(data) != "mine" {
		t.Errorf("conflicting copy modified without --force: %q", data)
	}

	ctx, _ = testContext(t, root)
	shareCmd = newWorktreeShareCmd()
	shareCmd.SetContext(ctx)
	shareCmd.SetArgs([]string{".env", "-f"})
	if err := shareCmd.Execute(); err != nil {
		t.Fatalf("share -f failed: %v", err)
	}
	if data, err := os.ReadFile(filepath.Join(devDir, ".env")); err != nil || string(data) != "theirs" {
		t.Errorf("dev .env = %q, %v; want sharer's content", data, err)
	}
}

// TestRemove_Repository tests top-level repository removal.
//
// Scenario: User runs `grm remove <url> --force` after sharing a file
// Expected: All worktrees are deleted, the shared store survives
func TestRemove_Repository(t *testing.T) {
	// Not parallel - modifies GIT_CONFIG_GLOBAL and the working directory

	url := setupTestRemote(t, "acme", "widget")
	root := resolvePath(t, t.TempDir())

	ctx, _ := testContext(t, root)
	clone := newCloneCmd()
	clone.SetContext(ctx)
	clone.SetArgs([]string{url})
	if err := clone.Execute(); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	mainDir := filepath.Join(root, "github.test", "acme", "widget+main")
	t.Chdir(mainDir)
	if err := os.WriteFile(filepath.Join(mainDir, ".env"), []byte("SECRET=1"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, _ = testContext(t, root)
	shareCmd := newWorktreeShareCmd()
	shareCmd.SetContext(ctx)
	shareCmd.SetArgs([]string{".env"})
	if err := shareCmd.Execute(); err != nil {
		t.Fatalf("share failed: %v", err)
	}

	t.Chdir(root)
	ctx, _ = testContext(t, root)
	remove := newRemoveCmd()
	remove.SetContext(ctx)
	remove.SetArgs([]string{url, "--force"})
	if err := remove.Execute(); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if _, err := os.Stat(mainDir); !os.IsNotExist(err) {
		t.Error("worktree still on disk after repository remove")
	}
	store := filepath.Join(root, ".shared", "github.test", "acme", "widget", ".env")
	if _, err := os.Stat(store); err != nil {
		t.Errorf("shared store should survive repository removal: %v", err)
	}
}

// TestRemove_NoWorktrees tests removal of an unknown repository.
//
// Scenario: User runs `grm remove` for a repository with no checkouts
// Expected: Command fails naming the searched root
func TestRemove_NoWorktrees(t *testing.T) {
	root := resolvePath(t, t.TempDir())
	ctx, _ := testContext(t, root)

	cmd := newRemoveCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"https://github.test/acme/ghost", "--force"})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("remove with no worktrees = nil, want error")
	}
	if !strings.Contains(err.Error(), root) {
		t.Errorf("error %q should name the searched root", err)
	}
}
