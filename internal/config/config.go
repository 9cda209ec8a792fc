package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/grm-sh/grm/internal/cmd"
)

// Source identifies where the resolved root came from.
type Source string

const (
	SourceEnv       Source = "GRM_ROOT environment variable"
	SourceFile      Source = "~/.grmrc"
	SourceGitConfig Source = "git config grm.root"
	SourceDefault   Source = "default"
)

// EnvRoot is the environment variable overriding every other source.
const EnvRoot = "GRM_ROOT"

// FileName is the per-user config file, relative to the home directory.
const FileName = ".grmrc"

// Config is the resolved grm configuration.
type Config struct {
	// Root is the absolute directory all managed worktrees live under.
	Root string
	// Source records which provider produced Root.
	Source Source
}

// ParseError reports a config file that exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// fileConfig is the schema of ~/.grmrc.
type fileConfig struct {
	Root string `toml:"root"`
}

// Resolve determines the root directory. Only a malformed ~/.grmrc is an
// error; every other source is optional and falls through to the next.
func Resolve(ctx context.Context) (Config, error) {
	if value := os.Getenv(EnvRoot); value != "" {
		root, err := expandPath(value)
		if err != nil {
			return Config{}, err
		}
		return Config{Root: root, Source: SourceEnv}, nil
	}

	if root, ok, err := fromFile(); err != nil {
		return Config{}, err
	} else if ok {
		return Config{Root: root, Source: SourceFile}, nil
	}

	if root, ok := fromGitConfig(ctx); ok {
		return Config{Root: root, Source: SourceGitConfig}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("determine home directory: %w", err)
	}
	return Config{Root: filepath.Join(home, "grm"), Source: SourceDefault}, nil
}

// fromFile reads the root key from ~/.grmrc. A missing file or empty key
// reports ok=false; a file that cannot be parsed is a ParseError.
func fromFile() (root string, ok bool, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, nil
	}
	path := filepath.Join(home, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return "", false, &ParseError{Path: path, Err: err}
	}
	if fc.Root == "" {
		return "", false, nil
	}

	root, err = expandPath(fc.Root)
	if err != nil {
		return "", false, err
	}
	return root, true, nil
}

// fromGitConfig reads grm.root from the global git configuration. A missing
// key, missing git binary or any other failure reports ok=false.
func fromGitConfig(ctx context.Context) (string, bool) {
	out, err := cmd.OutputContext(ctx, "", "git", "config", "--global", "--get", "grm.root")
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(string(out))
	if value == "" {
		return "", false
	}
	root, err := expandPath(value)
	if err != nil {
		return "", false
	}
	return root, true
}

// expandPath expands a leading ~ to the home directory and makes the result
// absolute.
func expandPath(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("absolutize %q: %w", path, err)
		}
		return abs, nil
	}
	return filepath.Clean(path), nil
}

type ctxKey struct{}

// WithConfig attaches the resolved config to the context.
func WithConfig(ctx context.Context, c Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext retrieves the config from context.
// Returns the zero Config if none is attached.
func FromContext(ctx context.Context) Config {
	if c, ok := ctx.Value(ctxKey{}).(Config); ok {
		return c
	}
	return Config{}
}
