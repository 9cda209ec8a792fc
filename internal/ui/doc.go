// Package ui provides terminal UI components for grm command output.
//
// This package uses the Charm libraries (lipgloss, bubbles) for styled
// terminal output.
//
// # Table Formatting
//
//   - [FormatWorktreesTable]: Renders the worktree list with REPO, BRANCH
//     and PATH columns for "grm list --long"
//
// Tables use lipgloss styling with normal borders in gray (color 240) and
// bold headers.
//
// # Spinner
//
// The [Spinner] type wraps Bubbletea for simple non-interactive progress
// indication during long-running operations such as clones.
package ui
