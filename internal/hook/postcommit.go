package hook

import (
	"context"
	"fmt"
	"time"

	"specguard/internal/auditlog"
	"specguard/internal/fingerprint"
	"specguard/internal/gitx"
	"specguard/internal/ledger"
)

// PostCommit fingerprints the assertion sets touched by the
// just-finalized commit and appends their ledger entries to its note.
// It always returns 0: the change is already final, so failures are
// logged and audited, never surfaced as a block.
func PostCommit(ctx context.Context, opts Options) int {
	opts.fill()

	repo, degraded := openRepo(ctx, &opts, "post-commit")
	if degraded {
		return 0
	}
	pol := loadPolicy(repo.Root, opts.Stderr)

	head, err := repo.Head(ctx)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "WARN: no HEAD commit to record detail=%q\n", err.Error())
		return 0
	}
	touched, err := repo.CommitPaths(ctx, head)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "WARN: cannot list commit paths detail=%q\n", err.Error())
		return 0
	}

	// Fingerprints come from the committed tree, never the working
	// tree: the note must certify exactly what was finalized.
	snap := gitx.CommitLoader{Ctx: ctx, Repo: repo, Commit: head}
	cat, err := buildCatalog(snap, opts.Log)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "WARN: cannot scan commit tree detail=%q\n", err.Error())
		return 0
	}
	sets := cat.implicated(touched)
	if len(sets) == 0 {
		opts.Log.Debug("no assertion sets touched; nothing to record", "commit", head)
		return 0
	}

	now := opts.Now().UTC().Format(time.RFC3339)
	var entries []ledger.Entry
	var results []auditlog.Result
	var note string

	for _, s := range sets {
		set, err := fingerprint.Collect(snap, s.Location)
		if err != nil {
			fmt.Fprintf(opts.Stderr, "WARN: %s location=%s detail=%q\n", E_UNREADABLE, s.Location, err.Error())
			results = append(results, auditlog.Result{Location: s.Location, Verdict: "unreadable"})
			continue
		}
		fp := fingerprint.Compute(set)
		if fp == fingerprint.NoAssertions {
			opts.Log.Debug("no assertions to record", "location", s.Location)
			continue
		}
		e := ledger.Entry{AssertionHash: fp, GeneratedAt: now}
		if s.Legacy {
			e.TestSpecsFile = s.Location
		} else {
			e.FeaturesDir = s.Location
		}
		entries = append(entries, e)
		results = append(results, auditlog.Result{Location: s.Location, Verdict: "recorded", Fingerprint: fp})
	}

	if len(entries) > 0 {
		led := ledger.New(repo, pol.NotesRef)
		if err := led.Append(ctx, head, entries); err != nil {
			fmt.Fprintf(opts.Stderr, "WARN: %s detail=%q\n", E_LEDGER_WRITE, err.Error())
			note = "ledger write failed: " + err.Error()
		} else {
			fmt.Fprintf(opts.Stdout, "OK: ledger recorded commit=%s entries=%d ref=%s\n",
				short(head), len(entries), pol.NotesRef)
		}
	}

	writeAudit(ctx, repo, opts.Stderr, auditlog.Entry{
		At:      now,
		Hook:    "post-commit",
		Commit:  head,
		Results: results,
		Note:    note,
	})
	return 0
}
