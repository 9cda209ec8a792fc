package fsys

import (
	"os"
	"path/filepath"
	"testing"
)

// TestCopyTree_File verifies copying a single regular file.
//
// Scenario: CopyTree is called on a regular file
// Expected: Content and permission bits are preserved at the destination
func TestCopyTree_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	if err := os.WriteFile(src, []byte("content"), 0o600); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := (OS{}).CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() = %v, want nil", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("dst content = %q, want %q", data, "content")
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat dst: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("dst perm = %v, want 0600", info.Mode().Perm())
	}
}

// TestCopyTree_Directory verifies recursive copying of nested directories.
//
// Scenario: CopyTree is called on a directory containing files, subdirectories and a symlink
// Expected: The whole tree is reproduced, symlinks keep their target
func TestCopyTree_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.MkdirAll(filepath.Join(src, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("b"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Symlink("a.txt", filepath.Join(src, "link")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	dst := filepath.Join(dir, "dst")
	if err := (OS{}).CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() = %v, want nil", err)
	}

	for _, rel := range []string{"a.txt", filepath.Join("sub", "b.txt")} {
		if _, err := os.Stat(filepath.Join(dst, rel)); err != nil {
			t.Errorf("missing copied file %s: %v", rel, err)
		}
	}

	target, err := os.Readlink(filepath.Join(dst, "link"))
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if target != "a.txt" {
		t.Errorf("symlink target = %q, want %q", target, "a.txt")
	}
}

// TestExists_DanglingSymlink verifies Exists and IsSymlink disagree on dangling links.
//
// Scenario: A symlink points at a path that does not exist
// Expected: Exists reports false while IsSymlink reports true
func TestExists_DanglingSymlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	link := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "gone"), link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	if (OS{}).Exists(link) {
		t.Error("Exists(dangling symlink) = true, want false")
	}
	if !(OS{}).IsSymlink(link) {
		t.Error("IsSymlink(dangling symlink) = false, want true")
	}
}
