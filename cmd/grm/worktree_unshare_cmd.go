package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/fsys"
	"github.com/grm-sh/grm/internal/log"
	"github.com/grm-sh/grm/internal/share"
)

func newWorktreeUnshareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unshare <path>",
		Short: "Remove a shared path from all worktrees",
		Args:  cobra.ExactArgs(1),
		Long: `Remove the shared symlink at <path> from every worktree of the current
repository. The canonical copy stays in the store under <root>/.shared as a
backup; no worktree has content at the path afterwards.

Unsharing a path that was never shared is a no-op.`,
		Example: `  grm worktree unshare .env
  grm worktree unshare config/local`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			cfg := config.FromContext(ctx)
			rel := args[0]

			wt, err := currentWorktree(cfg.Root)
			if err != nil {
				return err
			}

			mgr := share.NewManager(fsys.OS{}, cfg.Root)
			report, err := mgr.Unshare(wt.Location.Remote(), rel)
			if errors.Is(err, share.ErrNotShared) {
				l.Printf("Nothing to unshare: %s is not shared\n", rel)
				return nil
			}
			if err != nil {
				return err
			}
			for _, dir := range report.Done {
				l.Printf("Unlinked %s\n", dir)
			}
			if err := reportFailures(report.Err()); err != nil {
				return err
			}

			l.Printf("Unshared %s, store copy kept as backup\n", rel)
			return nil
		},
	}

	return cmd
}
