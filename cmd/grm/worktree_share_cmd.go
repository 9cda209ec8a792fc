package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/fsys"
	"github.com/grm-sh/grm/internal/log"
	"github.com/grm-sh/grm/internal/share"
)

func newWorktreeShareCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "share <path>",
		Short: "Share a file or directory across all worktrees",
		Args:  cobra.ExactArgs(1),
		Long: `Move <path> into the repository's canonical store and replace it with a
symlink in every worktree. Worktrees created later are linked automatically.

If the store already holds this path from an earlier share, the canonical
copy wins and the local one is discarded. Existing files at the path in
other worktrees are overwritten, never merged.`,
		Example: `  grm worktree share .env            # Share a file
  grm worktree share config/local    # Paths are worktree-relative
  grm worktree share node_modules -f # Overwrite other copies unprompted`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			cfg := config.FromContext(ctx)
			rel := args[0]

			wt, err := currentWorktree(cfg.Root)
			if err != nil {
				return err
			}
			remote := wt.Location.Remote()
			mgr := share.NewManager(fsys.OS{}, cfg.Root)

			conflicts, err := mgr.Conflicts(remote, rel, wt.Dir)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				l.Printf("Sharing %s will overwrite:\n  %s\n", rel, strings.Join(conflicts, "\n  "))
				ok, err := confirm(force, fmt.Sprintf("Overwrite %d file(s)?", len(conflicts)))
				if err != nil {
					return err
				}
				if !ok {
					l.Println("Cancelled")
					return nil
				}
			}

			report, err := mgr.Share(wt.Location, rel)
			if err != nil {
				return err
			}
			for _, dir := range report.Done {
				l.Printf("Linked %s\n", dir)
			}
			if err := reportFailures(report.Err()); err != nil {
				return err
			}

			l.Printf("Shared %s across %d worktree(s)\n", rel, len(report.Done))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite conflicting copies without confirmation")

	return cmd
}
