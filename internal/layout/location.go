package layout

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Sep joins the repo and branch components of a worktree directory name.
const Sep = "+"

// SharedDirName is the reserved directory under the root that holds the
// canonical copies of shared resources.
const SharedDirName = ".shared"

// ErrNotManaged indicates a path that does not follow the managed
// <root>/<host>/<user>/<repo>+<branch> layout. Ambiguous or malformed
// segmentation is reported the same way.
var ErrNotManaged = errors.New("not a managed repository path")

// InvalidNameError reports a component value that cannot be represented in
// the layout, e.g. a branch containing the reserved separator.
type InvalidNameError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Remote identifies a repository independent of any branch.
type Remote struct {
	Host string
	User string
	Repo string
}

// Location identifies one worktree: a repository plus a branch.
// All four fields are non-empty; construct via [Remote.At] or [ParseDir].
type Location struct {
	Host   string
	User   string
	Repo   string
	Branch string
}

// ParseURL extracts host, user and repo from a clone URL.
//
// Supported formats:
//   - https://host/user/repo(.git)
//   - ssh://git@host/user/repo(.git)
//   - git@host:user/repo(.git)
func ParseURL(raw string) (Remote, error) {
	url := strings.TrimSpace(raw)

	formats := []struct {
		prefix string
		sep    string
	}{
		{"https://", "/"},
		{"ssh://git@", "/"},
		{"git@", ":"},
	}

	for _, f := range formats {
		rest, ok := strings.CutPrefix(url, f.prefix)
		if !ok {
			continue
		}
		host, path, ok := strings.Cut(rest, f.sep)
		if !ok {
			return Remote{}, fmt.Errorf("invalid URL %q: expected %shost%suser/repo", raw, f.prefix, f.sep)
		}
		parts := strings.Split(path, "/")
		if len(parts) < 2 {
			return Remote{}, fmt.Errorf("invalid URL %q: expected %shost%suser/repo", raw, f.prefix, f.sep)
		}
		r := Remote{
			Host: host,
			User: parts[0],
			Repo: strings.TrimSuffix(parts[1], ".git"),
		}
		if err := r.validate(); err != nil {
			return Remote{}, err
		}
		return r, nil
	}

	return Remote{}, fmt.Errorf("unsupported URL format %q (supported: https://, ssh://git@, git@)", raw)
}

func (r Remote) validate() error {
	for _, c := range []struct{ field, value string }{
		{"host", r.Host},
		{"user", r.User},
		{"repo", r.Repo},
	} {
		if c.value == "" {
			return &InvalidNameError{Field: c.field, Value: c.value, Reason: "must not be empty"}
		}
		if strings.ContainsAny(c.value, "/\\") {
			return &InvalidNameError{Field: c.field, Value: c.value, Reason: "must not contain a path separator"}
		}
		if strings.HasPrefix(c.value, ".") {
			return &InvalidNameError{Field: c.field, Value: c.value, Reason: "must not start with a dot"}
		}
	}
	if strings.Contains(r.Repo, Sep) {
		return &InvalidNameError{Field: "repo", Value: r.Repo, Reason: "must not contain the reserved separator " + Sep}
	}
	return nil
}

// At combines the remote with a branch into a full Location.
// The branch may contain "/" but not the reserved separator.
func (r Remote) At(branch string) (Location, error) {
	if err := r.validate(); err != nil {
		return Location{}, err
	}
	if err := validateBranch(branch); err != nil {
		return Location{}, err
	}
	return Location{Host: r.Host, User: r.User, Repo: r.Repo, Branch: branch}, nil
}

func validateBranch(branch string) error {
	if branch == "" {
		return &InvalidNameError{Field: "branch", Value: branch, Reason: "must not be empty"}
	}
	if strings.Contains(branch, Sep) {
		return &InvalidNameError{Field: "branch", Value: branch, Reason: "must not contain the reserved separator " + Sep}
	}
	for _, seg := range strings.Split(branch, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return &InvalidNameError{Field: "branch", Value: branch, Reason: "contains an empty or relative path segment"}
		}
	}
	return nil
}

// SharedDir returns the canonical store directory for the repository:
// <root>/.shared/<host>/<user>/<repo>.
func (r Remote) SharedDir(root string) string {
	return filepath.Join(root, SharedDirName, r.Host, r.User, r.Repo)
}

// String renders the remote as host/user/repo.
func (r Remote) String() string {
	return r.Host + "/" + r.User + "/" + r.Repo
}

// Remote returns the branch-independent part of the location.
func (l Location) Remote() Remote {
	return Remote{Host: l.Host, User: l.User, Repo: l.Repo}
}

// Dir returns the worktree directory: <root>/<host>/<user>/<repo>+<branch>.
// A branch containing "/" nests further directory levels.
func (l Location) Dir(root string) string {
	return filepath.Join(root, l.Host, l.User, l.Repo+Sep+filepath.FromSlash(l.Branch))
}

// String renders the location as host/user/repo+branch.
func (l Location) String() string {
	return l.Host + "/" + l.User + "/" + l.Repo + Sep + l.Branch
}

// ParseDir inverts [Location.Dir]: it parses a path under root back into a
// Location. It returns [ErrNotManaged] when the path is not a strict
// descendant of root in <host>/<user>/<repo>+<branch> shape, contains
// dot-directory components (including .shared), or yields component values
// that would not survive the round trip.
func ParseDir(root, path string) (Location, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Location{}, fmt.Errorf("%s: %w", path, ErrNotManaged)
	}

	comps := strings.Split(rel, string(filepath.Separator))
	if len(comps) < 3 {
		return Location{}, fmt.Errorf("%s: %w", path, ErrNotManaged)
	}
	for _, c := range comps {
		if strings.HasPrefix(c, ".") {
			return Location{}, fmt.Errorf("%s: %w", path, ErrNotManaged)
		}
	}

	repo, branchHead, ok := strings.Cut(comps[2], Sep)
	if !ok {
		return Location{}, fmt.Errorf("%s: %w", path, ErrNotManaged)
	}

	branch := strings.Join(append([]string{branchHead}, comps[3:]...), "/")
	loc, err := Remote{Host: comps[0], User: comps[1], Repo: repo}.At(branch)
	if err != nil {
		// Segmentation that fails validation (a second separator, empty
		// components) is indistinguishable from an unmanaged directory.
		return Location{}, fmt.Errorf("%s: %w", path, ErrNotManaged)
	}
	return loc, nil
}
