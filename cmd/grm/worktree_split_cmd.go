package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/fsys"
	"github.com/grm-sh/grm/internal/git"
	"github.com/grm-sh/grm/internal/log"
	"github.com/grm-sh/grm/internal/output"
	"github.com/grm-sh/grm/internal/share"
)

func newWorktreeSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <branch>",
		Short: "Create a worktree for a branch",
		Args:  cobra.ExactArgs(1),
		Long: `Create a new worktree of the current repository for the given branch,
at <root>/<host>/<user>/<repo>+<branch>.

An existing local branch is checked out directly, an existing remote branch
gets a tracking branch, and otherwise a new branch is created from HEAD.
Files shared by the repository are linked into the new worktree.`,
		Example: `  grm worktree split feature/login      # New branch from HEAD
  grm worktree split release/2.0        # Existing branch is checked out
  cd $(grm worktree split feature/x)    # Jump straight into it`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			cfg := config.FromContext(ctx)
			branch := args[0]

			wt, err := currentWorktree(cfg.Root)
			if err != nil {
				return err
			}
			remote := wt.Location.Remote()

			loc, err := remote.At(branch)
			if err != nil {
				return err
			}
			dir := loc.Dir(cfg.Root)
			if _, err := os.Lstat(dir); err == nil {
				return fmt.Errorf("worktree already exists: %s", dir)
			}
			if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
				return fmt.Errorf("create parent directory: %w", err)
			}

			l.Debug("splitting worktree", "branch", branch, "dir", dir)
			if err := git.AddWorktree(ctx, wt.Dir, dir, branch); err != nil {
				return err
			}

			mgr := share.NewManager(fsys.OS{}, cfg.Root)
			report, err := mgr.LinkAll(remote, dir)
			if err != nil {
				return err
			}
			for _, rel := range report.Done {
				l.Printf("Linked shared %s\n", rel)
			}
			if err := reportFailures(report.Err()); err != nil {
				return err
			}

			l.Printf("Created worktree %s\n", loc)
			out.Println(dir)
			return nil
		},
	}

	return cmd
}
