package main

import (
	"github.com/spf13/cobra"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/fsys"
	"github.com/grm-sh/grm/internal/log"
	"github.com/grm-sh/grm/internal/share"
)

func newWorktreeIsolateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "isolate <path>",
		Short: "Replace a shared link with an independent copy",
		Args:  cobra.ExactArgs(1),
		Long: `Replace the shared symlink at <path> in the current worktree with an
independent copy of the store content. Other worktrees keep their links.

The path must be a shared symlink in this worktree.`,
		Example: `  grm worktree isolate .env     # Diverge this worktree's .env`,
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
			if err := mgr.Isolate(wt.Location, rel); err != nil {
				return err
			}

			l.Printf("Isolated %s in %s\n", rel, wt.Dir)
			return nil
		},
	}

	return cmd
}
