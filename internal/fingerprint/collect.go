package fingerprint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader abstracts where assertion bytes come from: the working tree,
// the staged index, or a commit. List returns every file path at or
// under location; Read returns one file's content.
type Loader interface {
	List(location string) ([]string, error)
	Read(path string) ([]byte, error)
}

// FeatureExt marks scenario documents inside a features directory.
const FeatureExt = ".feature"

// Collect builds the Set for an assertion set location: a directory of
// scenario documents (recursive, *.feature only) or a single legacy
// document. An absent location yields an empty set, which Compute maps
// to the NoAssertions sentinel.
func Collect(l Loader, location string) (Set, error) {
	paths, err := l.List(location)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", location, err)
	}

	location = strings.TrimSuffix(location, "/")
	if len(paths) == 1 && paths[0] == location {
		// Legacy format: the location is itself the document.
		content, err := l.Read(location)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", location, err)
		}
		return Set{{Path: location, Content: content}}, nil
	}

	var docs []string
	for _, p := range paths {
		if strings.HasSuffix(p, FeatureExt) {
			docs = append(docs, p)
		}
	}
	sort.Strings(docs)

	set := make(Set, 0, len(docs))
	for _, p := range docs {
		content, err := l.Read(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		set = append(set, File{Path: p, Content: content})
	}
	return set, nil
}

// OSLoader reads from the live working tree. Only the hash subcommand
// uses it; verification always goes through a git snapshot loader.
type OSLoader struct{}

func (OSLoader) List(location string) ([]string, error) {
	info, err := os.Stat(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{filepath.ToSlash(location)}, nil
	}
	var paths []string
	err = filepath.WalkDir(location, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, filepath.ToSlash(p))
		}
		return nil
	})
	return paths, err
}

func (OSLoader) Read(path string) ([]byte, error) {
	return os.ReadFile(filepath.FromSlash(path))
}
