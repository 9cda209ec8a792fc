package config

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// setHome points every resolution source at a fresh temp home.
// GRM_ROOT is cleared and git's global config is redirected into the temp
// home so the developer's real configuration never leaks into tests.
func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvRoot, "")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(home, "gitconfig"))
	return home
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// TestResolve_Env verifies that GRM_ROOT beats every other source.
//
// Scenario: GRM_ROOT is set while ~/.grmrc also names a root
// Expected: The environment value wins, with ~ expanded
func TestResolve_Env(t *testing.T) {
	home := setHome(t)
	if err := os.WriteFile(filepath.Join(home, FileName), []byte(`root = "/elsewhere"`+"\n"), 0o644); err != nil {
		t.Fatalf("write .grmrc: %v", err)
	}
	t.Setenv(EnvRoot, "~/checkouts")

	cfg, err := Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() = %v, want nil", err)
	}
	if want := filepath.Join(home, "checkouts"); cfg.Root != want {
		t.Errorf("Root = %q, want %q", cfg.Root, want)
	}
	if cfg.Source != SourceEnv {
		t.Errorf("Source = %q, want %q", cfg.Source, SourceEnv)
	}
}

// TestResolve_File verifies the ~/.grmrc source.
//
// Scenario: No GRM_ROOT, a .grmrc with a tilde root
// Expected: The file value wins, expanded to an absolute path
func TestResolve_File(t *testing.T) {
	home := setHome(t)
	if err := os.WriteFile(filepath.Join(home, FileName), []byte(`root = "~/repos"`+"\n"), 0o644); err != nil {
		t.Fatalf("write .grmrc: %v", err)
	}

	cfg, err := Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() = %v, want nil", err)
	}
	if want := filepath.Join(home, "repos"); cfg.Root != want {
		t.Errorf("Root = %q, want %q", cfg.Root, want)
	}
	if cfg.Source != SourceFile {
		t.Errorf("Source = %q, want %q", cfg.Source, SourceFile)
	}
}

// TestResolve_FileMalformed verifies that a broken .grmrc is fatal.
//
// Scenario: ~/.grmrc exists but is not valid TOML
// Expected: ParseError naming the file; no silent fallback to the default
func TestResolve_FileMalformed(t *testing.T) {
	home := setHome(t)
	if err := os.WriteFile(filepath.Join(home, FileName), []byte("root = [oops\n"), 0o644); err != nil {
		t.Fatalf("write .grmrc: %v", err)
	}

	_, err := Resolve(context.Background())
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Resolve() error = %v, want ParseError", err)
	}
	if parseErr.Path != filepath.Join(home, FileName) {
		t.Errorf("ParseError.Path = %q, want the .grmrc path", parseErr.Path)
	}
}

// TestResolve_FileWithoutRoot verifies fall-through past an empty file.
//
// Scenario: ~/.grmrc parses fine but sets no root
// Expected: Resolution continues to the default
func TestResolve_FileWithoutRoot(t *testing.T) {
	home := setHome(t)
	if err := os.WriteFile(filepath.Join(home, FileName), []byte("# nothing configured\n"), 0o644); err != nil {
		t.Fatalf("write .grmrc: %v", err)
	}

	cfg, err := Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() = %v, want nil", err)
	}
	if want := filepath.Join(home, "grm"); cfg.Root != want {
		t.Errorf("Root = %q, want %q", cfg.Root, want)
	}
	if cfg.Source != SourceDefault {
		t.Errorf("Source = %q, want %q", cfg.Source, SourceDefault)
	}
}

// TestResolve_GitConfig verifies the grm.root git configuration source.
//
// Scenario: No GRM_ROOT and no .grmrc, but git config holds grm.root
// Expected: The git config value wins over the default
func TestResolve_GitConfig(t *testing.T) {
	requireGit(t)
	home := setHome(t)
	gitconfig := "[grm]\n\troot = ~/from-git\n"
	if err := os.WriteFile(filepath.Join(home, "gitconfig"), []byte(gitconfig), 0o644); err != nil {
		t.Fatalf("write gitconfig: %v", err)
	}

	cfg, err := Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() = %v, want nil", err)
	}
	if want := filepath.Join(home, "from-git"); cfg.Root != want {
		t.Errorf("Root = %q, want %q", cfg.Root, want)
	}
	if cfg.Source != SourceGitConfig {
		t.Errorf("Source = %q, want %q", cfg.Source, SourceGitConfig)
	}
}

// TestResolve_Default verifies the built-in fallback.
//
// Scenario: No source provides a root
// Expected: ~/grm
func TestResolve_Default(t *testing.T) {
	home := setHome(t)

	cfg, err := Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() = %v, want nil", err)
	}
	if want := filepath.Join(home, "grm"); cfg.Root != want {
		t.Errorf("Root = %q, want %q", cfg.Root, want)
	}
	if cfg.Source != SourceDefault {
		t.Errorf("Source = %q, want %q", cfg.Source, SourceDefault)
	}
}

func TestWithConfig_FromContext(t *testing.T) {
	t.Parallel()

	want := Config{Root: "/srv/grm", Source: SourceEnv}
	ctx := WithConfig(context.Background(), want)
	if got := FromContext(ctx); got != want {
		t.Errorf("FromContext = %+v, want %+v", got, want)
	}
	if got := FromContext(context.Background()); got != (Config{}) {
		t.Errorf("FromContext on empty context = %+v, want zero", got)
	}
}
