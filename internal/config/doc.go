// Package config resolves the grm root directory.
//
// The root is looked up from four sources in order; the first one that yields
// a value wins:
//
//  1. the GRM_ROOT environment variable
//  2. the root key in ~/.grmrc (TOML)
//  3. the grm.root key in the global git configuration
//  4. the built-in default, ~/grm
//
// A missing source falls through silently; a ~/.grmrc that exists but cannot
// be parsed is a fatal [ParseError] so a typo never silently redirects every
// command to the default root. Paths may start with ~ and are expanded to an
// absolute path.
package config
