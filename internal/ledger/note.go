// Package ledger stores assertion fingerprints in a git notes
// namespace: an append-oriented channel outside the tracked file tree,
// addressed by commit. Rewriting tracked files cannot retroactively
// alter a note without leaving a new, inspectable notes event.
package ledger

import (
	"strings"
)

// Delimiter separates per-location entries inside one note body. Git
// allows one note per commit per namespace, so multi-feature commits
// concatenate entries.
const Delimiter = "---"

// Note body field keys.
const (
	keyHash        = "assertion-hash"
	keyGeneratedAt = "generated-at"
	keyFeaturesDir = "features-dir"
	keyLegacyFile  = "test-specs-file"
)

// Entry is one ledger record: a fingerprint bound to the assertion set
// location it was computed from.
type Entry struct {
	AssertionHash string
	GeneratedAt   string
	FeaturesDir   string
	TestSpecsFile string
}

// Location returns the assertion set location the entry certifies.
func (e Entry) Location() string {
	if e.FeaturesDir != "" {
		return e.FeaturesDir
	}
	return e.TestSpecsFile
}

// ParseNote splits a note body into entries. It is tolerant by
// contract: malformed segments are skipped, never fatal, so a
// corrupted note degrades to fewer (or zero) entries rather than a
// crashed hook.
func ParseNote(body string) []Entry {
	var entries []Entry
	for _, segment := range strings.Split(body, "\n"+Delimiter+"\n") {
		e, ok := parseSegment(segment)
		if ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func parseSegment(segment string) (Entry, bool) {
	var e Entry
	for _, line := range strings.Split(segment, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case keyHash:
			e.AssertionHash = value
		case keyGeneratedAt:
			e.GeneratedAt = value
		case keyFeaturesDir:
			e.FeaturesDir = value
		case keyLegacyFile:
			e.TestSpecsFile = value
		}
	}
	if e.AssertionHash == "" || e.Location() == "" {
		return Entry{}, false
	}
	return e, true
}

// FormatNote renders entries into one note body. FormatNote and
// ParseNote are the only owners of the delimiter convention.
func FormatNote(entries []Entry) string {
	segments := make([]string, 0, len(entries))
	for _, e := range entries {
		var b strings.Builder
		b.WriteString(keyHash + ": " + e.AssertionHash + "\n")
		b.WriteString(keyGeneratedAt + ": " + e.GeneratedAt + "\n")
		if e.FeaturesDir != "" {
			b.WriteString(keyFeaturesDir + ": " + e.FeaturesDir)
		} else {
			b.WriteString(keyLegacyFile + ": " + e.TestSpecsFile)
		}
		segments = append(segments, b.String())
	}
	return strings.Join(segments, "\n"+Delimiter+"\n")
}
