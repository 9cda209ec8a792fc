package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/fsys"
	"github.com/grm-sh/grm/internal/git"
	"github.com/grm-sh/grm/internal/layout"
	"github.com/grm-sh/grm/internal/log"
	"github.com/grm-sh/grm/internal/output"
	"github.com/grm-sh/grm/internal/share"
	"github.com/grm-sh/grm/internal/ui"
)

func newCloneCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:     "clone <url>",
		Short:   "Clone a repository into the managed layout",
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Clone a git repository into <root>/<host>/<user>/<repo>+<branch>.

The branch defaults to the remote's default branch. If the repository
previously shared files, the new checkout is linked to them.`,
		Example: `  grm clone https://github.com/acme/widget        # Checkout default branch
  grm clone git@github.com:acme/widget.git        # SSH URL works the same
  grm clone https://github.com/acme/widget -b dev # Checkout a specific branch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			cfg := config.FromContext(ctx)

			remote, err := layout.ParseURL(args[0])
			if err != nil {
				return err
			}

			target := branch
			if target == "" {
				l.Debug("querying default branch", "url", args[0])
				target, err = git.DefaultBranch(ctx, args[0])
				if err != nil {
					return fmt.Errorf("determine default branch: %w", err)
				}
			}

			loc, err := remote.At(target)
			if err != nil {
				return err
			}
			dir := loc.Dir(cfg.Root)
			if _, err := os.Lstat(dir); err == nil {
				return fmt.Errorf("destination already exists: %s", dir)
			}
			if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
				return fmt.Errorf("create parent directory: %w", err)
			}

			l.Debug("cloning", "remote", remote.String(), "branch", target, "dir", dir)

			var spinner *ui.Spinner
			if !l.IsVerbose() && isatty.IsTerminal(os.Stderr.Fd()) {
				spinner = ui.NewSpinner(fmt.Sprintf("Cloning %s...", remote))
				spinner.Start()
			}
			err = git.Clone(ctx, args[0], dir, branch)
			if spinner != nil {
				spinner.Stop()
			}
			if err != nil {
				return err
			}

			// Re-link anything still in this repository's shared store from
			// a previous checkout.
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

			l.Printf("Cloned %s (%s)\n", loc, target)
			out.Println(dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to check out (default: remote HEAD)")

	return cmd
}
