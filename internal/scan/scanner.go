package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grm-sh/grm/internal/fsys"
	"github.com/grm-sh/grm/internal/layout"
)

// Worktree is one discovered checkout: its parsed location and its directory.
type Worktree struct {
	Location layout.Location
	Dir      string
}

// Scanner enumerates managed worktrees and resolves the worktree containing
// an arbitrary working directory.
type Scanner struct {
	fs fsys.FS
}

// New creates a Scanner on the given filesystem.
func New(fs fsys.FS) *Scanner {
	return &Scanner{fs: fs}
}

// List returns every managed worktree under root, sorted by host, user, repo
// and branch. Entries that do not follow the layout are skipped; a missing
// root yields an empty result.
func (s *Scanner) List(root string) ([]Worktree, error) {
	hosts, err := s.fs.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	var worktrees []Worktree
	for _, host := range hosts {
		if skipEntry(host.Name()) || !host.IsDir() {
			continue
		}
		hostDir := filepath.Join(root, host.Name())

		users, err := s.fs.ReadDir(hostDir)
		if err != nil {
			continue
		}
		for _, user := range users {
			if skipEntry(user.Name()) || !user.IsDir() {
				continue
			}
			userDir := filepath.Join(hostDir, user.Name())

			repos, err := s.fs.ReadDir(userDir)
			if err != nil {
				continue
			}
			for _, repo := range repos {
				if skipEntry(repo.Name()) || !repo.IsDir() {
					continue
				}
				if !strings.Contains(repo.Name(), layout.Sep) {
					continue
				}
				worktrees = s.descend(root, filepath.Join(userDir, repo.Name()), worktrees)
			}
		}
	}

	sort.Slice(worktrees, func(i, j int) bool {
		a, b := worktrees[i].Location, worktrees[j].Location
		if a.Host != b.Host {
			return a.Host < b.Host
		}
		if a.User != b.User {
			return a.User < b.User
		}
		if a.Repo != b.Repo {
			return a.Repo < b.Repo
		}
		return a.Branch < b.Branch
	})

	return worktrees, nil
}

// descend walks below a repo+branch candidate. Hierarchical branches nest
// directories, so the worktree root is the first directory holding a .git
// entry.
func (s *Scanner) descend(root, dir string, acc []Worktree) []Worktree {
	if s.fs.Exists(filepath.Join(dir, ".git")) {
		loc, err := layout.ParseDir(root, dir)
		if err != nil {
			return acc
		}
		return append(acc, Worktree{Location: loc, Dir: dir})
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return acc
	}
	for _, entry := range entries {
		if skipEntry(entry.Name()) || !entry.IsDir() {
			continue
		}
		acc = s.descend(root, filepath.Join(dir, entry.Name()), acc)
	}
	return acc
}

// Worktrees returns the worktrees belonging to one repository, in List order.
func (s *Scanner) Worktrees(root string, remote layout.Remote) ([]Worktree, error) {
	all, err := s.List(root)
	if err != nil {
		return nil, err
	}
	var matching []Worktree
	for _, wt := range all {
		if wt.Location.Remote() == remote {
			matching = append(matching, wt)
		}
	}
	return matching, nil
}

// ResolveContext finds the worktree containing cwd: the nearest ancestor
// (cwd included) that holds a .git entry and parses under root. It returns
// layout.ErrNotManaged when cwd is at the root, above it, or outside the
// managed layout entirely.
func (s *Scanner) ResolveContext(root, cwd string) (Worktree, error) {
	dir := filepath.Clean(cwd)
	for {
		if loc, err := layout.ParseDir(root, dir); err == nil && s.fs.Exists(filepath.Join(dir, ".git")) {
			return Worktree{Location: loc, Dir: dir}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Worktree{}, fmt.Errorf("%s: %w", cwd, layout.ErrNotManaged)
		}
		dir = parent
	}
}

func skipEntry(name string) bool {
	return strings.HasPrefix(name, ".")
}
