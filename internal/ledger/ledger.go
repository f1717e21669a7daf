package ledger

import (
	"context"
	"errors"

	"specguard/internal/gitx"
	"specguard/internal/record"
)

// DefaultRef is the notes namespace entries are written under.
const DefaultRef = "testify"

// DefaultSearchDepth bounds the backward history walk in Find. Kept
// explicit so worst-case cost stays predictable.
const DefaultSearchDepth = 50

// Ledger reads and writes fingerprint entries in one notes namespace
// of one repository.
type Ledger struct {
	Repo *gitx.Repo
	Ref  string
}

// New returns a Ledger on the given namespace ref; empty selects
// DefaultRef.
func New(repo *gitx.Repo, ref string) *Ledger {
	if ref == "" {
		ref = DefaultRef
	}
	return &Ledger{Repo: repo, Ref: ref}
}

// Append merges entries into the commit's note: the existing note (if
// any) is parsed, prior entries for locations being re-appended are
// dropped, and the merged body is written back with force-overwrite.
// One entry per location per commit, last write wins.
func (l *Ledger) Append(ctx context.Context, commit string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	var merged []Entry
	if body, err := l.Repo.NoteShow(ctx, l.Ref, commit); err == nil {
		for _, old := range ParseNote(body) {
			if matchesAny(old.Location(), entries) {
				continue
			}
			merged = append(merged, old)
		}
	}
	merged = append(merged, entries...)

	return l.Repo.NoteAdd(ctx, l.Ref, commit, FormatNote(merged))
}

// Find locates the entry governing location: the tip's note first,
// then a bounded walk back through at most depth ancestors, stopping
// at the first note containing a matching entry. It returns the entry
// and the commit that carried it, or (nil, "", nil) when absent —
// absence is a verdict input, not an error.
func (l *Ledger) Find(ctx context.Context, location string, depth int) (*Entry, string, error) {
	if depth <= 0 {
		depth = DefaultSearchDepth
	}
	commits, err := l.Repo.RevList(ctx, depth)
	if err != nil {
		if errors.Is(err, gitx.ErrNoHead) {
			return nil, "", nil
		}
		return nil, "", err
	}
	for _, commit := range commits {
		body, err := l.Repo.NoteShow(ctx, l.Ref, commit)
		if err != nil {
			continue
		}
		for _, e := range ParseNote(body) {
			if record.PathsMatch(e.Location(), location) {
				found := e
				return &found, commit, nil
			}
		}
	}
	return nil, "", nil
}

func matchesAny(location string, entries []Entry) bool {
	for _, e := range entries {
		if record.PathsMatch(e.Location(), location) {
			return true
		}
	}
	return false
}
