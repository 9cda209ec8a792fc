// Package cmd provides helpers for executing external commands with proper
// error handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and include it in error
// messages, making command failures more informative for users. Commands are
// traced through the context logger in verbose mode.
//
// # Design Notes
//
// grm shells out to the git CLI rather than using a Go git library. This
// approach is simpler, more reliable, and ensures compatibility with user
// configurations (SSH keys, credential helpers, insteadOf rewrites).
package cmd
