package gitx

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"specguard/internal/gittest"
)

func TestOpenNotARepo(t *testing.T) {
	_, err := Open(context.Background(), t.TempDir(), nil)
	if !errors.Is(err, ErrNotARepo) {
		t.Fatalf("expected ErrNotARepo, got %v", err)
	}
}

func TestOpenResolvesRoot(t *testing.T) {
	dir := t.TempDir()
	gittest.InitRepo(t, dir)
	gittest.CommitFile(t, dir, "sub/file.txt", "x\n", "init")

	repo, err := Open(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if repo.Root == "" {
		t.Fatal("root not resolved")
	}
}

func TestRelNormalizesLocations(t *testing.T) {
	dir := t.TempDir()
	gittest.InitRepo(t, dir)
	gittest.CommitFile(t, dir, "specs/login/features/login.feature", "Given a\n", "assertions")

	repo, err := Open(context.Background(), filepath.Join(dir, "specs"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	rel, err := repo.Rel("login/features")
	if err != nil {
		t.Fatalf("Rel: %v", err)
	}
	if rel != "specs/login/features" {
		t.Fatalf("expected specs/login/features, got %s", rel)
	}

	if _, err := repo.Rel("../outside"); err == nil {
		t.Fatal("path escaping the repository must be rejected")
	}
}

func TestSnapshotReads(t *testing.T) {
	dir := t.TempDir()
	gittest.InitRepo(t, dir)
	gittest.CommitFile(t, dir, "specs/login/features/login.feature", "Given a\n", "assertions")
	head := gittest.HeadSHA(t, dir)

	ctx := context.Background()
	repo, err := Open(ctx, dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("index blob", func(t *testing.T) {
		data, err := repo.ShowIndex(ctx, "specs/login/features/login.feature")
		if err != nil {
			t.Fatalf("ShowIndex: %v", err)
		}
		if string(data) != "Given a\n" {
			t.Fatalf("unexpected content: %q", data)
		}
	})

	t.Run("commit blob", func(t *testing.T) {
		data, err := repo.ShowCommit(ctx, head, "specs/login/features/login.feature")
		if err != nil {
			t.Fatalf("ShowCommit: %v", err)
		}
		if string(data) != "Given a\n" {
			t.Fatalf("unexpected content: %q", data)
		}
	})

	t.Run("absent blob", func(t *testing.T) {
		if _, err := repo.ShowIndex(ctx, "nope.txt"); !errors.Is(err, ErrNoBlob) {
			t.Fatalf("expected ErrNoBlob, got %v", err)
		}
	})

	t.Run("staged snapshot ignores working tree", func(t *testing.T) {
		// Working-tree edits that are not staged must be invisible.
		gittest.WriteFile(t, dir, "specs/login/features/login.feature", "TAMPERED\n")
		data, err := repo.ShowIndex(ctx, "specs/login/features/login.feature")
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "Given a\n" {
			t.Fatalf("index read leaked working-tree state: %q", data)
		}
	})
}

func TestStagedAndCommitPaths(t *testing.T) {
	dir := t.TempDir()
	gittest.InitRepo(t, dir)
	gittest.CommitFile(t, dir, "a.txt", "1\n", "init")
	gittest.Stage(t, dir, "b.txt", "2\n")

	ctx := context.Background()
	repo, err := Open(ctx, dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	staged, err := repo.StagedPaths(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(staged) != 1 || staged[0] != "b.txt" {
		t.Fatalf("staged = %v", staged)
	}

	head := gittest.HeadSHA(t, dir)
	paths, err := repo.CommitPaths(ctx, head)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != "a.txt" {
		t.Fatalf("commit paths = %v", paths)
	}
}

func TestNotesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	gittest.InitRepo(t, dir)
	gittest.CommitFile(t, dir, "a.txt", "1\n", "init")
	head := gittest.HeadSHA(t, dir)

	ctx := context.Background()
	repo, err := Open(ctx, dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := repo.NoteShow(ctx, "testify", head); !errors.Is(err, ErrNoNote) {
		t.Fatalf("expected ErrNoNote, got %v", err)
	}
	if err := repo.NoteAdd(ctx, "testify", head, "body one"); err != nil {
		t.Fatalf("NoteAdd: %v", err)
	}
	// Force-overwrite, not error, when a note already exists.
	if err := repo.NoteAdd(ctx, "testify", head, "body two"); err != nil {
		t.Fatalf("NoteAdd overwrite: %v", err)
	}
	body, err := repo.NoteShow(ctx, "testify", head)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(body) != "body two" {
		t.Fatalf("expected overwritten body, got %q", body)
	}
}

func TestFakeRunnerRecordsCalls(t *testing.T) {
	fake := &FakeRunner{Handler: func(dir string, args []string) (string, error) {
		if args[0] == "rev-parse" {
			return "/repo\n", nil
		}
		return "", nil
	}}
	repo, err := Open(context.Background(), "/repo", fake)
	if err != nil {
		t.Fatalf("Open with fake: %v", err)
	}
	if repo.Root != "/repo" {
		t.Fatalf("root = %s", repo.Root)
	}
	if len(fake.Calls) != 1 || fake.Calls[0][0] != "rev-parse" {
		t.Fatalf("calls = %v", fake.Calls)
	}
}

func TestRevListBound(t *testing.T) {
	dir := t.TempDir()
	gittest.InitRepo(t, dir)
	for i := 0; i < 5; i++ {
		gittest.CommitFile(t, dir, "a.txt", strings.Repeat("x", i+1), "change")
	}
	ctx := context.Background()
	repo, err := Open(ctx, dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	shas, err := repo.RevList(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(shas) != 3 {
		t.Fatalf("expected the window to cap the walk at 3, got %d", len(shas))
	}
	if shas[0] != gittest.HeadSHA(t, dir) {
		t.Fatal("walk must start at the tip")
	}
}
