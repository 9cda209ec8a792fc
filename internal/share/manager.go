package share

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grm-sh/grm/internal/fsys"
	"github.com/grm-sh/grm/internal/layout"
	"github.com/grm-sh/grm/internal/scan"
)

// ErrNotShared indicates an unshare of a path with no canonical store entry.
// Callers treat this as "nothing to do" rather than a failure.
var ErrNotShared = errors.New("path is not shared")

// ErrNotSharedInWorktree indicates an isolate target that is not a symlink
// into the repository's store subtree. Unlike ErrNotShared this is fatal:
// isolate names one concrete link, and a missing link is a caller mistake.
var ErrNotSharedInWorktree = errors.New("path is not a shared symlink in this worktree")

// NotFoundError reports a share source or store entry that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Path
}

// InvalidPathError reports a relative path that cannot name a shared resource.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// Failure is one per-target error from a multi-target operation.
type Failure struct {
	Path string
	Err  error
}

// Report collects the outcome of an operation that touches several targets:
// worktree directories for Share/Unshare, store-relative paths for LinkAll.
// Completed targets are not rolled back when others fail; every step is
// idempotent, so re-running converges on the desired state.
type Report struct {
	Done   []string
	Failed []Failure
}

// Err returns the combined error of all failed targets, or nil.
func (r Report) Err() error {
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
	}
	return errors.Join(errs...)
}

// Manager owns the share/unshare/isolate/link lifecycle for one root.
type Manager struct {
	fs      fsys.FS
	scanner *scan.Scanner
	root    string
}

// NewManager creates a Manager operating under the given root directory.
func NewManager(fs fsys.FS, root string) *Manager {
	return &Manager{fs: fs, scanner: scan.New(fs), root: root}
}

// Share moves rel from the worktree at loc into the canonical store (unless a
// store entry already exists, in which case the canonical copy wins and the
// local one is discarded) and replaces rel in every worktree of the
// repository with a symlink to the store entry. Existing files or directories
// at rel are overwritten, never merged. Re-sharing an already shared path
// only re-asserts missing links.
func (m *Manager) Share(loc layout.Location, rel string) (Report, error) {
	rel, err := cleanRel(rel)
	if err != nil {
		return Report{}, err
	}

	remote := loc.Remote()
	src := filepath.Join(loc.Dir(m.root), filepath.FromSlash(rel))
	store := m.storePath(remote, rel)

	if !m.fs.Exists(store) {
		if m.fs.IsSymlink(src) {
			return Report{}, &InvalidPathError{Path: rel, Reason: "cannot seed the store from a symlink"}
		}
		if !m.fs.Exists(src) {
			return Report{}, &NotFoundError{Path: src}
		}
		if err := m.fs.MkdirAll(filepath.Dir(store)); err != nil {
			return Report{}, fmt.Errorf("create store directory: %w", err)
		}
		if err := m.move(src, store); err != nil {
			return Report{}, fmt.Errorf("move %s into store: %w", rel, err)
		}
	}

	worktrees, err := m.scanner.Worktrees(m.root, remote)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, wt := range worktrees {
		link := filepath.Join(wt.Dir, filepath.FromSlash(rel))
		if err := m.assertLink(store, link); err != nil {
			report.Failed = append(report.Failed, Failure{Path: wt.Dir, Err: err})
			continue
		}
		report.Done = append(report.Done, wt.Dir)
	}
	return report, nil
}

// Unshare removes the shared symlink at rel from every worktree of the
// repository. The canonical store entry is left untouched and serves as the
// backup; worktrees have no content at rel afterwards. Returns ErrNotShared
// when no store entry exists.
func (m *Manager) Unshare(remote layout.Remote, rel string) (Report, error) {
	rel, err := cleanRel(rel)
	if err != nil {
		return Report{}, err
	}
	if !m.fs.Exists(m.storePath(remote, rel)) {
		return Report{}, fmt.Errorf("%s: %w", rel, ErrNotShared)
	}

	worktrees, err := m.scanner.Worktrees(m.root, remote)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, wt := range worktrees {
		link := filepath.Join(wt.Dir, filepath.FromSlash(rel))
		if !m.isStoreLink(remote, link) {
			continue
		}
		if err := m.fs.Remove(link); err != nil {
			report.Failed = append(report.Failed, Failure{Path: wt.Dir, Err: err})
			continue
		}
		report.Done = append(report.Done, wt.Dir)
	}
	return report, nil
}

// Isolate converts rel in the worktree at loc from a shared symlink back into
// an independent copy of the store content. Only this worktree is affected.
func (m *Manager) Isolate(loc layout.Location, rel string) error {
	rel, err := cleanRel(rel)
	if err != nil {
		return err
	}

	link := filepath.Join(loc.Dir(m.root), filepath.FromSlash(rel))
	if !m.isStoreLink(loc.Remote(), link) {
		return fmt.Errorf("%s: %w", rel, ErrNotSharedInWorktree)
	}

	target, err := m.resolveLink(link)
	if err != nil {
		return err
	}
	if !m.fs.Exists(target) {
		return &NotFoundError{Path: target}
	}

	// Copy to a sibling first so a failed copy leaves the link intact and
	// the operation stays retryable.
	tmp := link + ".isolating"
	if m.fs.Exists(tmp) || m.fs.IsSymlink(tmp) {
		if err := m.fs.RemoveAll(tmp); err != nil {
			return fmt.Errorf("clear stale copy: %w", err)
		}
	}
	if err := m.fs.CopyTree(target, tmp); err != nil {
		m.fs.RemoveAll(tmp)
		return fmt.Errorf("copy store content: %w", err)
	}
	if err := m.fs.Remove(link); err != nil {
		m.fs.RemoveAll(tmp)
		return fmt.Errorf("remove symlink: %w", err)
	}
	if err := m.fs.Rename(tmp, link); err != nil {
		return fmt.Errorf("move copy into place: %w", err)
	}
	return nil
}

// LinkAll creates symlinks in a freshly created worktree for everything
// currently present in the repository's store, so new worktrees start fully
// linked. Link granularity follows what the existing worktrees show: a store
// entry linked wholesale elsewhere (and every non-directory entry) gets a
// symlink at that level, an unlinked directory is materialized and recursed
// into. Returns an empty report when nothing is shared.
func (m *Manager) LinkAll(remote layout.Remote, worktreeDir string) (Report, error) {
	storeRoot := remote.SharedDir(m.root)
	if !m.fs.Exists(storeRoot) {
		return Report{}, nil
	}

	worktrees, err := m.scanner.Worktrees(m.root, remote)
	if err != nil {
		return Report{}, err
	}
	others := worktrees[:0:0]
	for _, wt := range worktrees {
		if wt.Dir != worktreeDir {
			others = append(others, wt)
		}
	}

	var report Report
	m.linkEntries(remote, storeRoot, worktreeDir, "", others, &report)
	return report, nil
}

func (m *Manager) linkEntries(remote layout.Remote, storeRoot, worktreeDir, relDir string, others []scan.Worktree, report *Report) {
	entries, err := m.fs.ReadDir(filepath.Join(storeRoot, filepath.FromSlash(relDir)))
	if err != nil {
		report.Failed = append(report.Failed, Failure{Path: relDir, Err: err})
		return
	}

	for _, entry := range entries {
		rel := path.Join(relDir, entry.Name())
		if entry.IsDir() && !m.linkedElsewhere(remote, rel, others) {
			if err := m.fs.MkdirAll(filepath.Join(worktreeDir, filepath.FromSlash(rel))); err != nil {
				report.Failed = append(report.Failed, Failure{Path: rel, Err: err})
				continue
			}
			m.linkEntries(remote, storeRoot, worktreeDir, rel, others, report)
			continue
		}

		store := filepath.Join(storeRoot, filepath.FromSlash(rel))
		link := filepath.Join(worktreeDir, filepath.FromSlash(rel))
		if err := m.assertLink(store, link); err != nil {
			report.Failed = append(report.Failed, Failure{Path: rel, Err: err})
			continue
		}
		report.Done = append(report.Done, rel)
	}
}

// Conflicts returns the worktree paths that Share would overwrite: anything
// existing at rel that is not already a correct shared symlink. The worktree
// at excludeDir (the sharer, whose copy seeds the store) is skipped.
func (m *Manager) Conflicts(remote layout.Remote, rel, excludeDir string) ([]string, error) {
	rel, err := cleanRel(rel)
	if err != nil {
		return nil, err
	}

	worktrees, err := m.scanner.Worktrees(m.root, remote)
	if err != nil {
		return nil, err
	}

	var conflicts []string
	for _, wt := range worktrees {
		if wt.Dir == excludeDir {
			continue
		}
		target := filepath.Join(wt.Dir, filepath.FromSlash(rel))
		if !m.fs.Exists(target) && !m.fs.IsSymlink(target) {
			continue
		}
		if m.isStoreLink(remote, target) {
			continue
		}
		conflicts = append(conflicts, target)
	}
	sort.Strings(conflicts)
	return conflicts, nil
}

// assertLink makes link a symlink to store, replacing whatever is there.
// A symlink already pointing at store is left alone.
func (m *Manager) assertLink(store, link string) error {
	if m.fs.IsSymlink(link) {
		target, err := m.resolveLink(link)
		if err == nil && target == store {
			return nil
		}
	}
	if m.fs.Exists(link) || m.fs.IsSymlink(link) {
		if err := m.fs.RemoveAll(link); err != nil {
			return err
		}
	}
	if err := m.fs.MkdirAll(filepath.Dir(link)); err != nil {
		return err
	}
	return m.fs.Symlink(store, link)
}

// isStoreLink reports whether path is a symlink resolving into the
// repository's store subtree.
func (m *Manager) isStoreLink(remote layout.Remote, path string) bool {
	if !m.fs.IsSymlink(path) {
		return false
	}
	target, err := m.resolveLink(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(remote.SharedDir(m.root), target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// linkedElsewhere reports whether any of the given worktrees holds a shared
// symlink at rel.
func (m *Manager) linkedElsewhere(remote layout.Remote, rel string, worktrees []scan.Worktree) bool {
	for _, wt := range worktrees {
		if m.isStoreLink(remote, filepath.Join(wt.Dir, filepath.FromSlash(rel))) {
			return true
		}
	}
	return false
}

func (m *Manager) resolveLink(link string) (string, error) {
	target, err := m.fs.Readlink(link)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return filepath.Clean(target), nil
}

func (m *Manager) storePath(remote layout.Remote, rel string) string {
	return filepath.Join(remote.SharedDir(m.root), filepath.FromSlash(rel))
}

// move renames src to dst, falling back to copy-and-delete when rename fails
// (e.g. across filesystems).
func (m *Manager) move(src, dst string) error {
	if err := m.fs.Rename(src, dst); err == nil {
		return nil
	}
	if err := m.fs.CopyTree(src, dst); err != nil {
		return err
	}
	return m.fs.RemoveAll(src)
}

// cleanRel normalizes a user-supplied worktree-relative path and rejects
// anything that would escape the worktree or touch git metadata.
func cleanRel(rel string) (string, error) {
	if rel == "" {
		return "", &InvalidPathError{Path: rel, Reason: "must not be empty"}
	}
	if filepath.IsAbs(rel) {
		return "", &InvalidPathError{Path: rel, Reason: "must be relative to the worktree root"}
	}
	cleaned := path.Clean(filepath.ToSlash(rel))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", &InvalidPathError{Path: rel, Reason: "must stay inside the worktree"}
	}
	if cleaned == ".git" || strings.HasPrefix(cleaned, ".git/") {
		return "", &InvalidPathError{Path: rel, Reason: "git metadata cannot be shared"}
	}
	return cleaned, nil
}
