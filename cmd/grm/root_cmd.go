package main

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/log"
	"github.com/grm-sh/grm/internal/output"
)

func newRootCmd() *cobra.Command {
	var (
		source          bool
		copyToClipboard bool
	)

	cmd := &cobra.Command{
		Use:     "root",
		Short:   "Print the managed root directory",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Print the resolved root directory for shell scripting.

Use with command substitution: cd $(grm root)`,
		Example: `  cd $(grm root)        # Jump to the root
  grm root --source     # Show which provider configured the root
  grm root --copy       # Copy the root path to the clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			cfg := config.FromContext(ctx)

			if copyToClipboard {
				if err := clipboard.WriteAll(cfg.Root); err != nil {
					log.FromContext(ctx).Printf("Warning: failed to copy to clipboard: %v\n", err)
				}
			}

			if source {
				out.Printf("%s (%s)\n", cfg.Root, cfg.Source)
				return nil
			}
			out.Println(cfg.Root)
			return nil
		},
	}

	cmd.Flags().BoolVar(&source, "source", false, "Also print where the root was configured")
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy the root path to the clipboard")

	return cmd
}
