// Package hook implements the two lifecycle entry points git invokes
// around finalizing a change: pre-commit verifies staged assertion
// sets and blocks on tampering; post-commit records the finalized
// fingerprints in the side-channel ledger and never blocks.
package hook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"specguard/internal/auditlog"
	"specguard/internal/gitx"
	"specguard/internal/policy"
)

// Options configures one hook invocation. Zero values select the
// production wiring.
type Options struct {
	Dir    string // repository directory; empty means cwd
	Stdout io.Writer
	Stderr io.Writer
	Log    *slog.Logger
	Runner gitx.Runner      // nil selects the exec runner
	Now    func() time.Time // nil selects time.Now
}

func (o *Options) fill() {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Log == nil {
		o.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// openRepo opens the repository, degrading to (nil, true) when the
// environment cannot support verification at all: missing git or not
// a repository must not block work, only warn visibly.
func openRepo(ctx context.Context, opts *Options, hookName string) (*gitx.Repo, bool) {
	repo, err := gitx.Open(ctx, opts.Dir, opts.Runner)
	if err == nil {
		return repo, false
	}
	code := E_NO_REPO
	if errors.Is(err, gitx.ErrGitMissing) {
		code = E_GIT_MISSING
	}
	fmt.Fprintf(opts.Stderr, "WARN: %s specguard %s skipped detail=%q\n", code, hookName, err.Error())
	return nil, true
}

// loadPolicy reads the policy, warning and falling back to defaults
// on a malformed file. The warning keeps a typo from silently
// weakening enforcement.
func loadPolicy(root string, stderr io.Writer) policy.Policy {
	pol, err := policy.Load(root)
	if err != nil {
		fmt.Fprintf(stderr, "WARN: policy file ignored detail=%q\n", err.Error())
		return policy.Default()
	}
	return pol
}

// writeAudit appends the invocation to the audit log; failures are
// warn-only by contract.
func writeAudit(ctx context.Context, repo *gitx.Repo, stderr io.Writer, entry auditlog.Entry) {
	gitDir, err := repo.GitDir(ctx)
	if err == nil {
		err = auditlog.Append(gitDir, entry)
	}
	if err != nil {
		fmt.Fprintf(stderr, "WARN: audit log write failed detail=%q\n", err.Error())
	}
}
