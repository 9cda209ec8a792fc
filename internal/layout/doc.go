// Package layout defines the canonical on-disk naming scheme for managed
// repositories.
//
// Every worktree of a repository lives at
//
//	<root>/<host>/<user>/<repo>+<branch>
//
// and the canonical copies of shared resources live at
//
//	<root>/.shared/<host>/<user>/<repo>/<relative-path>
//
// The mapping from (host, user, repo, branch) to a path is injective and
// exactly invertible: [Location.Dir] and [ParseDir] are inverses for every
// valid [Location]. To keep that property, the separator character "+" is
// rejected in repo and branch names instead of being escaped. Branches may
// contain "/" and nest additional directory levels below the repo+branch
// segment.
//
// This package is pure path logic. It never touches the filesystem and never
// guesses a default branch; callers fill the branch in from git before
// deriving paths.
package layout
