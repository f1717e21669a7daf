package hook

import (
	"bytes"
	"strings"
	"testing"

	"specguard/internal/policy"
	"specguard/internal/verify"
	"specguard/internal/waiver"
)

func TestReportBlocked(t *testing.T) {
	tests := []struct {
		name string
		rep  report
		want bool
	}{
		{
			"valid only",
			report{Lines: []line{{Result: verify.Result{Verdict: verify.VerdictValid}}}},
			false,
		},
		{
			"missing never blocks",
			report{Lines: []line{{Result: verify.Result{Verdict: verify.VerdictMissing}}}},
			false,
		},
		{
			"invalid blocks",
			report{Lines: []line{{Result: verify.Result{Verdict: verify.VerdictInvalid}}}},
			true,
		},
		{
			"waived invalid does not block",
			report{Lines: []line{{
				Result: verify.Result{Verdict: verify.VerdictInvalid},
				Waiver: &waiver.Waiver{ID: "WV-01", Status: waiver.StatusActive},
			}}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rep.Blocked(); got != tt.want {
				t.Fatalf("Blocked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderConsolidatesFailures(t *testing.T) {
	rep := report{
		Policy: policy.Default(),
		Lines: []line{
			{Result: verify.Result{Location: "specs/a/features", Verdict: verify.VerdictInvalid, Fingerprint: "aaa"}},
			{Result: verify.Result{Location: "specs/b/features", Verdict: verify.VerdictInvalid, Fingerprint: "bbb"}},
			{Result: verify.Result{Location: "specs/c/features", Verdict: verify.VerdictValid, Fingerprint: "ccc"}},
		},
	}
	var buf bytes.Buffer
	rep.Render(&buf)
	out := buf.String()

	if got := strings.Count(out, "BLOCK:"); got != 1 {
		t.Fatalf("exactly one consolidated block line expected, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "failed=2") {
		t.Fatalf("block line must count both failures:\n%s", out)
	}
	for _, loc := range []string{"specs/a/features", "specs/b/features"} {
		if !strings.Contains(out, loc) {
			t.Fatalf("report must name %s:\n%s", loc, out)
		}
	}
	if got := strings.Count(out, "REASON"); got != 2 {
		t.Fatalf("one REASON per failure, got %d:\n%s", got, out)
	}
}
