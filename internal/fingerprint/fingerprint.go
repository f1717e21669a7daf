// Package fingerprint computes deterministic digests over assertion
// sets: the behavioral test scenarios of one feature, hashed as a unit
// so any content drift after generation is detectable.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

// NoAssertions is the sentinel returned when a set contains zero
// assertion steps. It always means "nothing to verify, pass" and is
// never compared as a hash.
const NoAssertions = "NO_ASSERTIONS"

// File is one document of an assertion set, identified by its
// repository-relative slash path.
type File struct {
	Path    string
	Content []byte
}

// Set is the ordered collection of documents for one feature. Compute
// canonicalizes the order itself, so callers can build sets in any
// listing order.
type Set []File

// stepRe matches an assertion step after leading whitespace and
// markdown list markers are stripped. And/But continuations do not
// count on their own: a set whose only step-like lines are
// continuations has no anchored assertion.
var stepRe = regexp.MustCompile(`^(?:Given|When|Then)\b`)

// Compute returns the lowercase-hex SHA-256 fingerprint of a set, or
// NoAssertions when no file contains an assertion step.
//
// Canonical form: files sorted bytewise by path, each contributing its
// length-prefixed path then length-prefixed content. Listing order
// never matters; every content byte does; moving bytes between files
// does too.
func Compute(set Set) string {
	sorted := make(Set, len(set))
	copy(sorted, set)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	any := false
	for _, f := range sorted {
		if HasSteps(f.Content) {
			any = true
			break
		}
	}
	if !any {
		return NoAssertions
	}

	h := sha256.New()
	var n [8]byte
	for _, f := range sorted {
		binary.BigEndian.PutUint64(n[:], uint64(len(f.Path)))
		h.Write(n[:])
		h.Write([]byte(f.Path))
		binary.BigEndian.PutUint64(n[:], uint64(len(f.Content)))
		h.Write(n[:])
		h.Write(f.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HasSteps reports whether content contains at least one assertion
// step line.
func HasSteps(content []byte) bool {
	for _, line := range strings.Split(string(content), "\n") {
		if isStep(line) {
			return true
		}
	}
	return false
}

func isStep(line string) bool {
	s := strings.TrimLeft(line, " \t")
	// strip markdown list / quote markers: "- ", "* ", "+ ", "> "
	for {
		if len(s) >= 2 && strings.ContainsRune("-*+>", rune(s[0])) && (s[1] == ' ' || s[1] == '\t') {
			s = strings.TrimLeft(s[1:], " \t")
			continue
		}
		break
	}
	return stepRe.MatchString(s)
}
