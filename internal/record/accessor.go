package record

import (
	"context"
	"path"

	"specguard/internal/gitx"
)

// Source selects which snapshot a context record is read from.
type Source int

const (
	// SourceIndex reads the staged version: only legitimate when the
	// record is part of the same pending change as the assertions it
	// certifies (a fresh generation event).
	SourceIndex Source = iota
	// SourceHead reads the last finalized version. This is the
	// anti-forgery default: a working-tree edit to context.json that
	// was not staged as part of a generation event is never trusted.
	SourceHead
)

// PathFor returns the context record path governing an assertion set
// location: context.json in the parent of a features directory or of
// a legacy document.
func PathFor(location string) string {
	dir := path.Dir(clean(location))
	if dir == "." || dir == "" {
		return FileName
	}
	return dir + "/" + FileName
}

// Load reads and parses the record governing location from the chosen
// snapshot. Absent and malformed both come back as an error; callers
// map either to "channel absent".
func Load(ctx context.Context, repo *gitx.Repo, location string, src Source) (*Record, error) {
	p := PathFor(location)

	var data []byte
	var err error
	switch src {
	case SourceIndex:
		data, err = repo.ShowIndex(ctx, p)
	default:
		var head string
		head, err = repo.Head(ctx)
		if err == nil {
			data, err = repo.ShowCommit(ctx, head, p)
		}
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
