package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/fsys"
	"github.com/grm-sh/grm/internal/layout"
	"github.com/grm-sh/grm/internal/log"
	"github.com/grm-sh/grm/internal/scan"
)

func newRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove <url>",
		Short:   "Remove all worktrees of a repository",
		Aliases: []string{"rm"},
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Remove every worktree of the repository from disk.

The repository's shared store under <root>/.shared is kept as a backup;
only checkout directories are deleted.`,
		Example: `  grm remove https://github.com/acme/widget     # Confirms before deleting
  grm remove git@github.com:acme/widget.git -f  # No confirmation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			cfg := config.FromContext(ctx)

			remote, err := layout.ParseURL(args[0])
			if err != nil {
				return err
			}

			fs := fsys.OS{}
			worktrees, err := scan.New(fs).Worktrees(cfg.Root, remote)
			if err != nil {
				return err
			}
			if len(worktrees) == 0 {
				return fmt.Errorf("no worktrees for %s under %s", remote, cfg.Root)
			}

			message := fmt.Sprintf("Remove %d worktree(s) of %s from disk?", len(worktrees), remote)
			ok, err := confirm(force, message)
			if err != nil {
				return err
			}
			if !ok {
				l.Println("Cancelled")
				return nil
			}

			for _, wt := range worktrees {
				l.Debug("removing worktree", "dir", wt.Dir)
				if err := fs.RemoveAll(wt.Dir); err != nil {
					return fmt.Errorf("remove %s: %w", wt.Dir, err)
				}
				l.Printf("Removed %s\n", wt.Dir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove without confirmation")

	return cmd
}
