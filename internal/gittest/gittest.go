// Package gittest builds throwaway git repositories for hermetic
// tests. Every helper shells out to the real git binary so the code
// under test sees exactly the snapshots it would see in production.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// InitRepo initializes a repository with the identity config commits
// need and main as the default branch.
func InitRepo(t *testing.T, dir string) {
	t.Helper()
	MustRunGit(t, dir, "init", "-b", "main")
	MustRunGit(t, dir, "config", "user.name", "Test User")
	MustRunGit(t, dir, "config", "user.email", "test@example.com")
}

// WriteFile creates or overwrites a file, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// Stage writes a file and adds it to the index without committing.
func Stage(t *testing.T, dir, name, content string) {
	t.Helper()
	WriteFile(t, dir, name, content)
	MustRunGit(t, dir, "add", filepath.FromSlash(name))
}

// Commit commits everything currently staged.
func Commit(t *testing.T, dir, msg string) {
	t.Helper()
	MustRunGit(t, dir, "commit", "-m", msg)
}

// CommitFile stages one file and commits it.
func CommitFile(t *testing.T, dir, name, content, msg string) {
	t.Helper()
	Stage(t, dir, name, content)
	Commit(t, dir, msg)
}

// HeadSHA returns the full SHA of the current HEAD.
func HeadSHA(t *testing.T, dir string) string {
	t.Helper()
	return RunGit(t, dir, "rev-parse", "HEAD")
}

// RunGit runs git and returns trimmed stdout, failing the test on a
// non-zero exit.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git %v failed: %v", args, err)
	}
	return strings.TrimSpace(string(out))
}

// MustRunGit runs git for its side effect, failing the test with the
// combined output on error.
func MustRunGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}
