// Package verify implements the verification state machine: recompute
// an assertion set's fingerprint from a git snapshot, cross-check it
// against the context record and the side-channel ledger, and combine
// the two channels into one verdict.
package verify

import (
	"context"
	"io"
	"log/slog"

	"specguard/internal/fingerprint"
	"specguard/internal/gitx"
	"specguard/internal/ledger"
	"specguard/internal/record"
)

// Verdict is the terminal outcome for one assertion set.
type Verdict int

const (
	VerdictValid Verdict = iota
	VerdictInvalid
	VerdictMissing
)

func (v Verdict) String() string {
	switch v {
	case VerdictValid:
		return "valid"
	case VerdictInvalid:
		return "invalid"
	default:
		return "missing"
	}
}

// Channel is the state of one evidence channel for one verification.
type Channel int

const (
	ChannelAbsent Channel = iota
	ChannelMatch
	ChannelMismatch
)

func (c Channel) String() string {
	switch c {
	case ChannelMatch:
		return "match"
	case ChannelMismatch:
		return "mismatch"
	default:
		return "absent"
	}
}

// Result is the full diagnostic outcome for one assertion set.
type Result struct {
	Location    string
	Fingerprint string
	Verdict     Verdict

	Context     Channel
	ContextHash string

	Ledger       Channel
	LedgerHash   string
	LedgerCommit string

	// FreshGeneration is set when the context record was staged in the
	// same pending change: the trusted-generation heuristic.
	FreshGeneration bool

	// Detail carries a degradation note (e.g. unreadable content).
	Detail string
}

// Engine verifies assertion sets against the staged index snapshot.
// Fingerprints are always recomputed from content the engine re-read
// itself; a caller-asserted hash is never trusted.
type Engine struct {
	Repo        *gitx.Repo
	Ledger      *ledger.Ledger
	SearchDepth int
	Log         *slog.Logger
}

// New builds an Engine with the given ledger namespace and search
// depth (zero values select the defaults).
func New(repo *gitx.Repo, notesRef string, searchDepth int, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if searchDepth <= 0 {
		searchDepth = ledger.DefaultSearchDepth
	}
	return &Engine{
		Repo:        repo,
		Ledger:      ledger.New(repo, notesRef),
		SearchDepth: searchDepth,
		Log:         log,
	}
}

// Verify runs the state machine for one assertion set location.
// stagedPaths is the pending change's path list, used only to decide
// whether the governing context record is part of the same change.
// Verify always terminates with a verdict: unreadable channels read
// as absent, an unreadable set degrades to missing.
func (e *Engine) Verify(ctx context.Context, location string, stagedPaths []string) Result {
	res := Result{Location: location}

	set, err := fingerprint.Collect(gitx.IndexLoader{Ctx: ctx, Repo: e.Repo}, location)
	if err != nil {
		e.Log.Debug("assertion set unreadable", "location", location, "err", err)
		res.Verdict = VerdictMissing
		res.Detail = "assertion content unreadable: " + err.Error()
		return res
	}

	res.Fingerprint = fingerprint.Compute(set)
	if res.Fingerprint == fingerprint.NoAssertions {
		// Nothing to verify. The sentinel always passes.
		res.Verdict = VerdictValid
		return res
	}

	res.FreshGeneration = containsPath(stagedPaths, record.PathFor(location))
	res.Context, res.ContextHash = e.contextChannel(ctx, location, res.FreshGeneration, res.Fingerprint)
	res.Ledger, res.LedgerHash, res.LedgerCommit = e.ledgerChannel(ctx, location, res.Fingerprint)

	res.Verdict = combine(res)
	return res
}

// combine applies the documented precedence: a fresh, matching
// generation wins over a stale ledger note; any mismatch on either
// channel is tampering; any match passes; two absent channels mean
// there is no baseline yet.
func combine(res Result) Verdict {
	switch {
	case res.FreshGeneration && res.Context == ChannelMatch:
		return VerdictValid
	case res.Context == ChannelMismatch || res.Ledger == ChannelMismatch:
		return VerdictInvalid
	case res.Context == ChannelMatch || res.Ledger == ChannelMatch:
		return VerdictValid
	default:
		return VerdictMissing
	}
}

func (e *Engine) contextChannel(ctx context.Context, location string, fresh bool, current string) (Channel, string) {
	src := record.SourceHead
	if fresh {
		src = record.SourceIndex
	}
	rec, err := record.Load(ctx, e.Repo, location, src)
	if err != nil {
		e.Log.Debug("context record absent", "location", location, "source", src, "err", err)
		return ChannelAbsent, ""
	}
	if !rec.Certifies(location) {
		e.Log.Debug("context record names a different location",
			"location", location, "declared", rec.Location())
		return ChannelAbsent, ""
	}
	if rec.AssertionHash == current {
		return ChannelMatch, rec.AssertionHash
	}
	return ChannelMismatch, rec.AssertionHash
}

func (e *Engine) ledgerChannel(ctx context.Context, location, current string) (Channel, string, string) {
	entry, commit, err := e.Ledger.Find(ctx, location, e.SearchDepth)
	if err != nil {
		e.Log.Debug("ledger lookup failed", "location", location, "err", err)
		return ChannelAbsent, "", ""
	}
	if entry == nil {
		return ChannelAbsent, "", ""
	}
	if entry.AssertionHash == current {
		return ChannelMatch, entry.AssertionHash, commit
	}
	return ChannelMismatch, entry.AssertionHash, commit
}

func containsPath(paths []string, p string) bool {
	for _, s := range paths {
		if s == p {
			return true
		}
	}
	return false
}
