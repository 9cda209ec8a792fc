package main

import (
	"github.com/spf13/cobra"
)

func newWorktreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "worktree",
		Short:   "Manage worktrees of the current repository",
		Aliases: []string{"wt"},
		GroupID: GroupWorktree,
		Long: `Manage worktrees and shared files of the repository containing the
current directory. All subcommands resolve the repository from the working
directory, which must be inside a managed worktree.`,
		Example: `  grm worktree split feature/x   # New worktree for a branch
  grm worktree share .env        # Share a file across worktrees
  grm worktree unshare .env      # Remove the shared links
  grm worktree isolate .env      # Detach this worktree's copy
  grm worktree remove feature/x  # Remove a worktree`,
	}

	cmd.AddCommand(newWorktreeSplitCmd())
	cmd.AddCommand(newWorktreeRemoveCmd())
	cmd.AddCommand(newWorktreeShareCmd())
	cmd.AddCommand(newWorktreeUnshareCmd())
	cmd.AddCommand(newWorktreeIsolateCmd())

	return cmd
}
