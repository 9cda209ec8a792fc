package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/fsys"
	"github.com/grm-sh/grm/internal/log"
	"github.com/grm-sh/grm/internal/output"
	"github.com/grm-sh/grm/internal/scan"
)

func newFindCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:     "find <query>",
		Short:   "Fuzzy-find a worktree and print its path",
		GroupID: GroupUtility,
		Args:    cobra.ExactArgs(1),
		Long: `Fuzzy-match the query against host/user/repo+branch of every managed
worktree and print the best match's directory.

Use with shell command substitution: cd $(grm find widget)`,
		Example: `  cd $(grm find widget)       # Jump to the best match
  grm find acme/wid           # Match against the full identifier
  grm find widget --copy      # Copy the path to the clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			cfg := config.FromContext(ctx)

			worktrees, err := scan.New(fsys.OS{}).List(cfg.Root)
			if err != nil {
				return err
			}
			if len(worktrees) == 0 {
				return fmt.Errorf("no worktrees under %s", cfg.Root)
			}

			names := make([]string, len(worktrees))
			for i, wt := range worktrees {
				names[i] = wt.Location.String()
			}

			matches := fuzzy.Find(args[0], names)
			if len(matches) == 0 {
				return fmt.Errorf("no worktree matches %q", args[0])
			}
			best := worktrees[matches[0].Index]

			if copyToClipboard {
				if err := clipboard.WriteAll(best.Dir); err != nil {
					log.FromContext(ctx).Printf("Warning: failed to copy to clipboard: %v\n", err)
				}
			}

			out.Println(best.Dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy the path to the clipboard")

	return cmd
}
