package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/git"
	"github.com/grm-sh/grm/internal/log"
)

func newWorktreeRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove <branch>",
		Short:   "Remove the worktree for a branch",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		Long: `Remove the current repository's worktree for the given branch via
git worktree remove. The branch itself is kept.

Shared files are symlinks into the store, so removing the worktree never
touches shared content.`,
		Example: `  grm worktree remove feature/login     # Refuses if dirty
  grm worktree remove feature/login -f  # Discard uncommitted changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			cfg := config.FromContext(ctx)
			branch := args[0]

			wt, err := currentWorktree(cfg.Root)
			if err != nil {
				return err
			}

			loc, err := wt.Location.Remote().At(branch)
			if err != nil {
				return err
			}
			dir := loc.Dir(cfg.Root)
			if _, err := os.Lstat(dir); err != nil {
				return fmt.Errorf("no worktree for branch %s at %s", branch, dir)
			}
			if dir == wt.Dir {
				return fmt.Errorf("cannot remove the worktree you are in, cd elsewhere first")
			}

			l.Debug("removing worktree", "branch", branch, "dir", dir)
			if err := git.RemoveWorktree(ctx, wt.Dir, dir, force); err != nil {
				return err
			}
			l.Printf("Removed %s\n", dir)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even with uncommitted changes")

	return cmd
}
