// Package git provides git operations via shell commands.
//
// All operations use [os/exec.Cmd] to call the git CLI directly rather than
// using Go git libraries. This approach is simpler, more reliable, and ensures
// compatibility with user configurations (SSH keys, credential helpers,
// insteadOf rewrites).
//
// Failures carry the operation name and git's stderr in an [OperationError].
package git
