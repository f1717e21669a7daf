package hook

import (
	"context"
	"fmt"
	"time"

	"specguard/internal/auditlog"
	"specguard/internal/gitx"
	"specguard/internal/verify"
	"specguard/internal/waiver"
)

// PreCommit verifies every assertion set implicated by the staged
// change and returns the hook exit code: 0 to allow, 1 to block. It
// fast-exits with zero verification work when the staged change
// implicates no assertion set.
func PreCommit(ctx context.Context, opts Options) int {
	opts.fill()

	repo, degraded := openRepo(ctx, &opts, "pre-commit")
	if degraded {
		return 0
	}
	pol := loadPolicy(repo.Root, opts.Stderr)

	staged, err := repo.StagedPaths(ctx)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "WARN: cannot read staged paths detail=%q\n", err.Error())
		return 0
	}

	if len(staged) == 0 && !pol.VerifyAll {
		opts.Log.Debug("nothing staged; fast exit")
		return 0
	}

	index := gitx.IndexLoader{Ctx: ctx, Repo: repo}
	cat, err := buildCatalog(index, opts.Log)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "WARN: cannot scan staged index detail=%q\n", err.Error())
		return 0
	}

	var sets []assertionSet
	if pol.VerifyAll {
		sets = cat.all
	} else {
		sets = cat.implicated(staged)
	}
	if len(sets) == 0 {
		opts.Log.Debug("no assertion sets implicated; fast exit")
		return 0
	}

	engine := verify.New(repo, pol.NotesRef, pol.SearchDepth, opts.Log)
	waivers, werr := waiver.Load(repo.Root, opts.Now().UTC())
	if werr != nil {
		fmt.Fprintf(opts.Stderr, "WARN: waiver registry ignored detail=%q\n", werr.Error())
		waivers = &waiver.Registry{}
	}

	rep := report{Policy: pol}
	for _, s := range sets {
		res := engine.Verify(ctx, s.Location, staged)
		l := line{Result: res}
		if res.Verdict == verify.VerdictInvalid {
			l.Waiver = waivers.Lookup(s.Location)
		}
		if res.FreshGeneration && res.Verdict == verify.VerdictValid {
			opts.Log.Info("fresh generation accepted", "location", s.Location, "fingerprint", res.Fingerprint)
		}
		rep.Lines = append(rep.Lines, l)
	}

	rep.Render(opts.Stderr)
	blocked := rep.Blocked()

	auditResults := make([]auditlog.Result, 0, len(rep.Lines))
	for _, l := range rep.Lines {
		auditResults = append(auditResults, auditlog.Result{
			Location:    l.Result.Location,
			Verdict:     l.Result.Verdict.String(),
			Fingerprint: l.Result.Fingerprint,
			Waived:      l.Waiver != nil,
		})
	}
	head, _ := repo.Head(ctx)
	writeAudit(ctx, repo, opts.Stderr, auditlog.Entry{
		At:      opts.Now().UTC().Format(time.RFC3339),
		Hook:    "pre-commit",
		Commit:  head,
		Results: auditResults,
		Blocked: blocked,
	})

	if blocked {
		return 1
	}
	return 0
}
