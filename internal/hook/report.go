package hook

import (
	"fmt"
	"io"

	"specguard/internal/policy"
	"specguard/internal/verify"
	"specguard/internal/waiver"
)

// line is one rendered outcome: the verification result plus the
// waiver that covers it, if any.
type line struct {
	Result verify.Result
	Waiver *waiver.Waiver
}

// report is the single consolidated output of one pre-commit
// invocation. One report per invocation, never one message per probe.
type report struct {
	Policy policy.Policy
	Lines  []line
}

// Blocked reports whether any unwaived invalid verdict remains.
func (r *report) Blocked() bool {
	for _, l := range r.Lines {
		if l.Result.Verdict == verify.VerdictInvalid && l.Waiver == nil {
			return true
		}
	}
	return false
}

// Render writes the report in the structured OK:/WARN:/ERROR: line
// format, followed by REASON/FIX pairs for every blocking failure and
// the bypass notice.
func (r *report) Render(w io.Writer) {
	fmt.Fprintf(w, "specguard pre-commit: verified %d assertion set(s)\n", len(r.Lines))

	failed, waived, missing := 0, 0, 0
	for _, l := range r.Lines {
		res := l.Result
		switch {
		case res.Verdict == verify.VerdictValid:
			fmt.Fprintf(w, "OK: verdict=valid location=%s fingerprint=%s\n",
				res.Location, short(res.Fingerprint))
		case res.Verdict == verify.VerdictMissing:
			missing++
			detail := res.Detail
			if detail == "" {
				detail = "no recorded baseline (context record and ledger both absent)"
			}
			fmt.Fprintf(w, "WARN: %s location=%s detail=%q\n", E_BASELINE_MISSING, res.Location, detail)
		case l.Waiver != nil:
			waived++
			fmt.Fprintf(w, "WARN: %s location=%s waiver=%s status=%s expires=%s\n",
				E_WAIVED, res.Location, l.Waiver.ID, l.Waiver.Status, orNone(l.Waiver.ExpiresAt))
		default:
			failed++
			fmt.Fprintf(w, "ERROR: %s location=%s computed=%s context=%s ledger=%s\n",
				E_TAMPERED, res.Location, short(res.Fingerprint),
				channelField(res.Context.String(), res.ContextHash, ""),
				channelField(res.Ledger.String(), res.LedgerHash, res.LedgerCommit))
		}
	}

	if missing > 0 {
		if r.Policy.Mandatory() {
			fmt.Fprintln(w, "WARN: test-first development is mandatory for this repository; run the assertion generation step before writing code")
		} else {
			fmt.Fprintln(w, "WARN: no baseline yet for some sets; the post-commit hook will record one")
		}
	}

	if failed == 0 {
		fmt.Fprintf(w, "OK: phase=end blocked=0 waived=%d missing=%d\n", waived, missing)
		return
	}

	for _, l := range r.Lines {
		if l.Result.Verdict != verify.VerdictInvalid || l.Waiver != nil {
			continue
		}
		fmt.Fprintf(w, "REASON code=%s msg=%q\n", E_TAMPERED,
			"assertion content for "+l.Result.Location+" changed after generation was locked")
		fmt.Fprintf(w, "FIX    code=%s msg=%q\n", E_TAMPERED,
			"re-run the assertion generation step for "+l.Result.Location+" and stage its refreshed context.json")
	}
	fmt.Fprintf(w, "BLOCK: failed=%d waived=%d missing=%d\n", failed, waived, missing)
	fmt.Fprintln(w, "NOTE: `git commit --no-verify` bypasses this check; bypassing leaves no ledger note and is visible in review")
}

func short(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	if fp == "" {
		return "none"
	}
	return fp
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func channelField(state, hash, commit string) string {
	if hash == "" {
		return state
	}
	out := state + ":" + short(hash)
	if commit != "" {
		out += "@" + short(commit)
	}
	return out
}
