// Package auditlog appends one JSON line per hook invocation to a
// file under .git, so fresh-generation overrides and post-commit
// failures stay inspectable without touching the tracked tree.
package auditlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RelPath is the log file relative to the repository's .git directory.
const RelPath = "specguard/audit.jsonl"

// Result is one assertion set's outcome inside an invocation entry.
type Result struct {
	Location    string `json:"location"`
	Verdict     string `json:"verdict"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Waived      bool   `json:"waived,omitempty"`
}

// Entry is one hook invocation.
type Entry struct {
	ID      string   `json:"id"`
	At      string   `json:"at"`
	Hook    string   `json:"hook"`
	Commit  string   `json:"commit,omitempty"`
	Results []Result `json:"results,omitempty"`
	Blocked bool     `json:"blocked"`
	Note    string   `json:"note,omitempty"`
}

func (e Entry) validate() error {
	if strings.TrimSpace(e.Hook) == "" {
		return errors.New("hook is required")
	}
	return nil
}

// Append writes one entry to gitDir's audit log, filling ID and At
// when empty. Callers treat failures as warn-only: the log must never
// block a hook.
func Append(gitDir string, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At == "" {
		e.At = time.Now().UTC().Format(time.RFC3339)
	}

	path := filepath.Join(gitDir, filepath.FromSlash(RelPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}
