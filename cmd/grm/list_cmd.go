package main

import (
	"github.com/spf13/cobra"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/fsys"
	"github.com/grm-sh/grm/internal/output"
	"github.com/grm-sh/grm/internal/scan"
	"github.com/grm-sh/grm/internal/ui"
)

func newListCmd() *cobra.Command {
	var (
		fullPath bool
		long     bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List managed worktrees",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List every worktree under the root, sorted by host, user, repo and
branch. Directories that do not follow the layout are ignored.`,
		Example: `  grm list               # host/user/repo+branch per line
  grm list --full-path   # absolute directories, for scripting
  grm list --long        # table with REPO, BRANCH and PATH columns`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			cfg := config.FromContext(ctx)

			worktrees, err := scan.New(fsys.OS{}).List(cfg.Root)
			if err != nil {
				return err
			}

			if long {
				out.Print(ui.FormatWorktreesTable(worktrees))
				return nil
			}

			for _, wt := range worktrees {
				if fullPath {
					out.Println(wt.Dir)
				} else {
					out.Println(wt.Location.String())
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fullPath, "full-path", false, "Print absolute worktree directories")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Render a table with repo, branch and path")
	cmd.MarkFlagsMutuallyExclusive("full-path", "long")

	return cmd
}
