// Package policy loads the repository's enforcement policy from
// .specguard.yaml, with environment overrides for the ledger knobs.
package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the policy file at the repository root.
const FileName = ".specguard.yaml"

// TestFirst enforcement modes. Mandatory does not turn a missing
// baseline into a block — missing never blocks — it changes the
// warning wording and implies verifying every known set.
const (
	TestFirstAdvisory  = "advisory"
	TestFirstMandatory = "mandatory"
)

// Environment overrides; both win over the file.
const (
	EnvNotesRef    = "SPECGUARD_NOTES_REF"
	EnvSearchDepth = "SPECGUARD_SEARCH_DEPTH"
)

// Policy is the parsed enforcement policy.
type Policy struct {
	TestFirst   string `yaml:"test_first"`
	VerifyAll   bool   `yaml:"verify_all"`
	SearchDepth int    `yaml:"search_depth"`
	NotesRef    string `yaml:"notes_ref"`
}

// Default returns the policy used when no file is present.
func Default() Policy {
	return Policy{
		TestFirst:   TestFirstAdvisory,
		VerifyAll:   false,
		SearchDepth: 50,
		NotesRef:    "testify",
	}
}

// Load reads the policy file from the repository root. An absent file
// yields the defaults; a malformed file is an error so a typo cannot
// silently weaken enforcement.
func Load(root string) (Policy, error) {
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(Default())
		}
		return Policy{}, fmt.Errorf("read %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse decodes and validates policy bytes, then applies environment
// overrides.
func Parse(data []byte) (Policy, error) {
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("decode %s: %w", FileName, err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return applyEnv(p)
}

// Validate checks fields one by one.
func (p Policy) Validate() error {
	switch strings.TrimSpace(p.TestFirst) {
	case TestFirstAdvisory, TestFirstMandatory:
	default:
		return fmt.Errorf("test_first must be %q or %q, got %q",
			TestFirstAdvisory, TestFirstMandatory, p.TestFirst)
	}
	if p.SearchDepth <= 0 {
		return fmt.Errorf("search_depth must be positive, got %d", p.SearchDepth)
	}
	if strings.TrimSpace(p.NotesRef) == "" {
		return fmt.Errorf("notes_ref must be non-empty")
	}
	return nil
}

// Mandatory reports whether test-first development is declared
// mandatory for this repository.
func (p Policy) Mandatory() bool {
	return p.TestFirst == TestFirstMandatory
}

func applyEnv(p Policy) (Policy, error) {
	if ref := os.Getenv(EnvNotesRef); ref != "" {
		p.NotesRef = ref
	}
	if raw := os.Getenv(EnvSearchDepth); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil || depth <= 0 {
			return Policy{}, fmt.Errorf("%s must be a positive integer, got %q", EnvSearchDepth, raw)
		}
		p.SearchDepth = depth
	}
	return p, nil
}
