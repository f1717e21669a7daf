package gitx

import (
	"context"
	"strings"
)

// IndexLoader reads assertion content from the staged index snapshot.
// It satisfies fingerprint.Loader.
type IndexLoader struct {
	Ctx  context.Context
	Repo *Repo
}

func (l IndexLoader) List(location string) ([]string, error) {
	all, err := l.Repo.LsIndex(l.Ctx)
	if err != nil {
		return nil, err
	}
	return filterUnder(all, location), nil
}

func (l IndexLoader) Read(path string) ([]byte, error) {
	return l.Repo.ShowIndex(l.Ctx, path)
}

// CommitLoader reads assertion content from one commit's tree.
// It satisfies fingerprint.Loader.
type CommitLoader struct {
	Ctx    context.Context
	Repo   *Repo
	Commit string
}

func (l CommitLoader) List(location string) ([]string, error) {
	all, err := l.Repo.LsTree(l.Ctx, l.Commit, location)
	if err != nil {
		return nil, err
	}
	return filterUnder(all, location), nil
}

func (l CommitLoader) Read(path string) ([]byte, error) {
	return l.Repo.ShowCommit(l.Ctx, l.Commit, path)
}

// filterUnder keeps paths equal to location or strictly inside it.
// An empty location keeps everything.
func filterUnder(paths []string, location string) []string {
	location = strings.TrimSuffix(location, "/")
	if location == "" {
		return paths
	}
	var out []string
	for _, p := range paths {
		if p == location || strings.HasPrefix(p, location+"/") {
			out = append(out, p)
		}
	}
	return out
}
