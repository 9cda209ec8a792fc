package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grm-sh/grm/internal/config"
	"github.com/grm-sh/grm/internal/log"
	"github.com/grm-sh/grm/internal/output"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

// Command group IDs for organizing help output
const (
	GroupCore     = "core"
	GroupWorktree = "worktree"
	GroupUtility  = "utility"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "grm",
	Short: "Git repository manager with shared worktree resources",
	Long: `grm organizes git checkouts in a deterministic layout under one root:

  <root>/<host>/<user>/<repo>+<branch>

Every branch gets its own worktree directory, and files like .env or build
caches can be shared across all worktrees of a repository via symlinks into
a canonical store at <root>/.shared.

The root is resolved from GRM_ROOT, ~/.grmrc, git config grm.root, or
defaults to ~/grm.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Flags are parsed by now, so the logger honors -v and -q.
		// Logger on stderr for diagnostics, printer on stdout for data.
		ctx := cmd.Context()
		ctx = log.WithLogger(ctx, log.New(cmd.ErrOrStderr(), verbose, quiet))
		ctx = output.WithPrinter(ctx, cmd.OutOrStdout())

		// Config is not needed for completion and help
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			cmd.SetContext(ctx)
			return nil
		}

		cfg, err := config.Resolve(ctx)
		if err != nil {
			return err
		}
		cmd.SetContext(config.WithConfig(ctx, cfg))
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'grm -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupWorktree, Title: "Worktree Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
	)

	// Core commands
	rootCmd.AddCommand(newCloneCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRemoveCmd())

	// Worktree commands
	rootCmd.AddCommand(newWorktreeCmd())

	// Utility commands
	rootCmd.AddCommand(newRootCmd())
	rootCmd.AddCommand(newFindCmd())
}
