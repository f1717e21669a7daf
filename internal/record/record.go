// Package record reads the per-feature context record: the tracked
// JSON document that certifies an assertion fingerprint at generation
// time. The record lives in the normal file tree, so on its own it is
// not tamper-resistant; the verify engine cross-checks it against the
// side-channel ledger.
package record

import (
	"encoding/json"
	"errors"
	"path"
	"strings"
)

// FileName is the record's fixed name inside a feature directory.
const FileName = "context.json"

// ErrMalformed covers every parse failure. Callers treat a malformed
// record as an absent channel, never as valid.
var ErrMalformed = errors.New("malformed context record")

// Record is the testify payload of one context.json.
type Record struct {
	AssertionHash string `json:"assertion_hash"`
	GeneratedAt   string `json:"generated_at"`
	FeaturesDir   string `json:"features_dir,omitempty"`
	TestSpecsFile string `json:"test_specs_file,omitempty"`
}

type envelope struct {
	Testify *Record `json:"testify"`
}

// Parse validates the envelope shape: a testify object with a
// non-empty assertion_hash, generated_at, and at least one of
// features_dir / test_specs_file. When both are set, features_dir
// wins (the new format supersedes the legacy pointer).
func Parse(data []byte) (*Record, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	if env.Testify == nil {
		return nil, errors.Join(ErrMalformed, errors.New("missing testify object"))
	}
	r := env.Testify
	if strings.TrimSpace(r.AssertionHash) == "" {
		return nil, errors.Join(ErrMalformed, errors.New("assertion_hash is required"))
	}
	if strings.TrimSpace(r.GeneratedAt) == "" {
		return nil, errors.Join(ErrMalformed, errors.New("generated_at is required"))
	}
	if r.FeaturesDir == "" && r.TestSpecsFile == "" {
		return nil, errors.Join(ErrMalformed, errors.New("features_dir or test_specs_file is required"))
	}
	return r, nil
}

// Location returns the assertion set location this record certifies.
func (r *Record) Location() string {
	if r.FeaturesDir != "" {
		return r.FeaturesDir
	}
	return r.TestSpecsFile
}

// Certifies reports whether the record names location, exactly or by
// suffix. Generators write the location relative to their own working
// directory, so `features` certifies `specs/login/features`.
func (r *Record) Certifies(location string) bool {
	return PathsMatch(r.Location(), location)
}

// PathsMatch is the one place that implements the exact-or-suffix
// location match used by both the record and the ledger.
func PathsMatch(declared, location string) bool {
	declared = clean(declared)
	location = clean(location)
	if declared == "" || location == "" {
		return false
	}
	if declared == location {
		return true
	}
	return strings.HasSuffix(location, "/"+declared) || strings.HasSuffix(declared, "/"+location)
}

func clean(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return strings.TrimSuffix(path.Clean(p), "/")
}
