package gitx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	// ErrGitMissing means the git binary is not on PATH.
	ErrGitMissing = errors.New("git executable not found")
	// ErrNotARepo means the directory is not inside a git work tree.
	ErrNotARepo = errors.New("not a git repository")
	// ErrNoHead means the repository has no commits yet.
	ErrNoHead = errors.New("no HEAD commit")
	// ErrNoBlob means the requested path does not exist in the snapshot.
	ErrNoBlob = errors.New("path not found in snapshot")
	// ErrNoNote means the commit carries no note in the requested namespace.
	ErrNoNote = errors.New("no note on commit")
)

// Repo gives point-in-time snapshot access to one git repository: the
// staged index or a specific commit, never the live working tree. All
// paths in and out are slash-separated and relative to Root.
type Repo struct {
	Dir    string // directory Open was called with
	Root   string // absolute work tree root
	Runner Runner
}

// Open resolves dir to its repository root. A nil runner selects the
// production ExecRunner. Returns ErrGitMissing or ErrNotARepo so hooks
// can degrade to a warn-and-pass instead of failing hard.
func Open(ctx context.Context, dir string, r Runner) (*Repo, error) {
	if r == nil {
		r = ExecRunner{}
	}
	out, err := r.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrGitMissing
		}
		return nil, fmt.Errorf("%w: %s", ErrNotARepo, dir)
	}
	return &Repo{Dir: dir, Root: strings.TrimSpace(out), Runner: r}, nil
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	return r.Runner.Run(ctx, r.Root, args...)
}

// GitDir returns the absolute path of the repository's .git directory.
func (r *Repo) GitDir(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return "", err
	}
	d := strings.TrimSpace(out)
	if !filepath.IsAbs(d) {
		d = filepath.Join(r.Root, d)
	}
	return d, nil
}

// Head returns the full SHA of the current tip, or ErrNoHead on an
// empty repository.
func (r *Repo) Head(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", ErrNoHead
	}
	return strings.TrimSpace(out), nil
}

// StagedPaths lists paths changed in the index relative to HEAD — the
// content of the pending change.
func (r *Repo) StagedPaths(ctx context.Context) ([]string, error) {
	if _, err := r.Head(ctx); err != nil {
		// Initial commit: everything in the index is staged.
		out, lsErr := r.run(ctx, "ls-files", "--cached")
		if lsErr != nil {
			return nil, lsErr
		}
		return splitLines(out), nil
	}
	out, err := r.run(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// CommitPaths lists paths touched by one commit.
func (r *Repo) CommitPaths(ctx context.Context, commit string) ([]string, error) {
	out, err := r.run(ctx, "diff-tree", "--no-commit-id", "--name-only", "-r", "--root", commit)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// LsIndex lists every tracked path in the staged index.
func (r *Repo) LsIndex(ctx context.Context) ([]string, error) {
	out, err := r.run(ctx, "ls-files", "--cached")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// LsTree lists every path under prefix in a commit's tree. Empty prefix
// lists the whole tree.
func (r *Repo) LsTree(ctx context.Context, commit, prefix string) ([]string, error) {
	args := []string{"ls-tree", "-r", "--name-only", commit}
	if prefix != "" {
		args = append(args, "--", prefix)
	}
	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// ShowIndex reads a blob from the staged index.
func (r *Repo) ShowIndex(ctx context.Context, path string) ([]byte, error) {
	out, err := r.run(ctx, "show", ":"+path)
	if err != nil {
		return nil, fmt.Errorf("%w: :%s", ErrNoBlob, path)
	}
	return []byte(out), nil
}

// ShowCommit reads a blob from a commit's tree.
func (r *Repo) ShowCommit(ctx context.Context, commit, path string) ([]byte, error) {
	out, err := r.run(ctx, "show", commit+":"+path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s:%s", ErrNoBlob, commit, path)
	}
	return []byte(out), nil
}

// RevList returns up to max ancestor SHAs starting at the tip, newest
// first. The bound keeps backward history walks predictable.
func (r *Repo) RevList(ctx context.Context, max int) ([]string, error) {
	out, err := r.run(ctx, "rev-list", fmt.Sprintf("--max-count=%d", max), "HEAD")
	if err != nil {
		return nil, ErrNoHead
	}
	return splitLines(out), nil
}

// NoteShow reads the note body on a commit in the given namespace ref.
// Any failure reads as ErrNoNote: an unreadable note is an absent note.
func (r *Repo) NoteShow(ctx context.Context, ref, commit string) (string, error) {
	out, err := r.run(ctx, "notes", "--ref", ref, "show", commit)
	if err != nil {
		return "", fmt.Errorf("%w: %s@%s", ErrNoNote, ref, commit)
	}
	return out, nil
}

// NoteAdd writes the note body on a commit, force-overwriting any
// existing note in that namespace.
func (r *Repo) NoteAdd(ctx context.Context, ref, commit, body string) error {
	_, err := r.run(ctx, "notes", "--ref", ref, "add", "-f", "-m", body, commit)
	return err
}

// Rel converts an absolute or Dir-relative OS path to a slash path
// relative to the repository root.
func (r *Repo) Rel(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.Dir, p)
	}
	abs, err := filepath.Abs(abs)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(r.Root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %s is outside the repository", p)
	}
	return filepath.ToSlash(rel), nil
}

func splitLines(out string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
