// Package scan discovers managed worktrees under the root directory.
//
// The filesystem is the source of truth: there is no registry or manifest,
// scanning re-reads the tree on every call. A directory is a worktree when it
// parses as <host>/<user>/<repo>+<branch> via the layout package and contains
// a .git entry (a file for linked worktrees, a directory for the primary
// checkout). Unrelated directories under the root are skipped, never fatal;
// dot-directories (including the .shared store) are always excluded.
package scan
