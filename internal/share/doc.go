// Package share keeps shared resources consistent across the worktrees of a
// repository.
//
// A resource is a file or directory at a path relative to the worktree root.
// Sharing moves the canonical copy into the store at
// <root>/.shared/<host>/<user>/<repo>/<path> and replaces the path in every
// worktree with a symlink to it. There is no manifest: the store entry's
// existence is the "shared" state, and which worktrees are linked is observed
// live by inspecting symlinks that resolve into the store subtree. Users can
// hand-edit the tree between invocations, so every operation re-observes
// before it mutates.
//
// Share and Unshare act on all worktrees of the repository; when a symlink
// operation fails in one worktree the others still proceed and the outcome is
// collected in a [Report]. Each per-worktree step is idempotent, so re-running
// after a partial failure converges. Isolate is the one single-worktree
// operation: it replaces that worktree's symlink with an independent copy of
// the store content.
package share
