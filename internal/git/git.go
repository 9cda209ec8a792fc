package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// OperationError reports a failed git invocation. The wrapped error carries
// git's stderr when it produced any.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("git %s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

func opErr(op string, err error) error {
	return &OperationError{Op: op, Err: err}
}

// Clone clones url into dir, checking out branch (or the remote's default
// branch when empty). The parent of dir must exist.
func Clone(ctx context.Context, url, dir, branch string) error {
	args := []string{"clone"}
	if branch != "" {
		args = append(args, "-b", branch)
	}
	args = append(args, "--", url, dir)
	if err := runGit(ctx, "", args...); err != nil {
		return opErr("clone", err)
	}
	return nil
}

// DefaultBranch asks the remote at url which branch HEAD points to,
// e.g. "main". Hierarchical names like "release/2026" are returned as-is.
func DefaultBranch(ctx context.Context, url string) (string, error) {
	out, err := outputGit(ctx, "", "ls-remote", "--symref", url, "HEAD")
	if err != nil {
		return "", opErr("ls-remote", err)
	}
	// First line: "ref: refs/heads/main\tHEAD"
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.HasPrefix(line, "ref: refs/heads/") {
			continue
		}
		ref := strings.TrimPrefix(line, "ref: refs/heads/")
		if i := strings.IndexByte(ref, '\t'); i >= 0 {
			ref = ref[:i]
		}
		if ref != "" {
			return ref, nil
		}
	}
	return "", opErr("ls-remote", fmt.Errorf("no symref for HEAD in output"))
}

// RepoRoot returns the top-level directory of the checkout containing dir.
func RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", opErr("rev-parse", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// RemoteURL returns the fetch URL of the origin remote of the checkout at dir.
func RemoteURL(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "remote", "get-url", "origin")
	if err != nil {
		return "", opErr("remote get-url", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// LocalBranchExists reports whether branch exists in the checkout at dir.
func LocalBranchExists(ctx context.Context, dir, branch string) (bool, error) {
	err := runGit(ctx, dir, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err == nil {
		return true, nil
	}
	if exitCode(err) == 1 {
		return false, nil
	}
	return false, opErr("show-ref", err)
}

// RemoteBranchExists reports whether branch exists on the origin remote of
// the checkout at dir. This queries the remote, not the local refs.
func RemoteBranchExists(ctx context.Context, dir, branch string) (bool, error) {
	err := runGit(ctx, dir, "ls-remote", "--exit-code", "--heads", "origin", "refs/heads/"+branch)
	if err == nil {
		return true, nil
	}
	if exitCode(err) == 2 {
		return false, nil
	}
	return false, opErr("ls-remote", err)
}

// AddWorktree checks out branch into path as a linked worktree of the
// checkout at repoDir. An existing local branch is checked out directly, an
// existing remote branch gets a tracking branch, and otherwise a new branch
// is created from the current HEAD.
func AddWorktree(ctx context.Context, repoDir, path, branch string) error {
	local, err := LocalBranchExists(ctx, repoDir, branch)
	if err != nil {
		return err
	}
	if local {
		if err := runGit(ctx, repoDir, "worktree", "add", path, branch); err != nil {
			return opErr("worktree add", err)
		}
		return nil
	}

	remote, err := RemoteBranchExists(ctx, repoDir, branch)
	if err != nil {
		return err
	}
	args := []string{"worktree", "add"}
	if remote {
		args = append(args, "--track", "-b", branch, path, "origin/"+branch)
	} else {
		args = append(args, "-b", branch, path)
	}
	if err := runGit(ctx, repoDir, args...); err != nil {
		return opErr("worktree add", err)
	}
	return nil
}

// RemoveWorktree detaches the linked worktree at path from the checkout at
// repoDir. With force, uncommitted changes in the worktree are discarded.
func RemoveWorktree(ctx context.Context, repoDir, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if err := runGit(ctx, repoDir, args...); err != nil {
		return opErr("worktree remove", err)
	}
	return nil
}

// exitCode returns the process exit code wrapped in err, or -1. Exit codes
// are only observable when git wrote nothing to stderr; git's status checks
// (show-ref --quiet, ls-remote --exit-code) are silent by design.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
