package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/grm-sh/grm/internal/fsys"
	"github.com/grm-sh/grm/internal/scan"
	"github.com/grm-sh/grm/internal/ui/prompt"
)

// currentWorktree resolves the worktree containing the working directory.
func currentWorktree(root string) (scan.Worktree, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return scan.Worktree{}, fmt.Errorf("get working directory: %w", err)
	}
	return scan.New(fsys.OS{}).ResolveContext(root, cwd)
}

// confirm guards destructive operations. With force it proceeds immediately;
// without a terminal on stdin it refuses instead of hanging on a prompt.
func confirm(force bool, message string) (bool, error) {
	if force {
		return true, nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("stdin is not a terminal, pass --force to proceed")
	}
	ok, err := prompt.Confirm(message)
	if errors.Is(err, prompt.ErrAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

// reportFailures wraps a partial-failure report error. Successful targets
// stay done; re-running converges on the desired state.
func reportFailures(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("some worktrees could not be updated, re-run to retry:\n%w", err)
}
