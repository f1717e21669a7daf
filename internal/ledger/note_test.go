package ledger

import (
	"strings"
	"testing"
)

func TestFormatParseRoundTrip(t *testing.T) {
	entries := []Entry{
		{AssertionHash: "h1", GeneratedAt: "2026-08-01T10:00:00Z", FeaturesDir: "specs/login/features"},
		{AssertionHash: "h2", GeneratedAt: "2026-08-02T11:00:00Z", TestSpecsFile: "specs/legacy/test_specs.md"},
	}
	body := FormatNote(entries)
	if strings.Count(body, Delimiter) != 1 {
		t.Fatalf("two entries must be separated by one delimiter:\n%s", body)
	}

	got := ParseNote(body)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries back, got %d", len(got))
	}
	if got[0] != entries[0] || got[1] != entries[1] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestParseNoteTolerant(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty body", "", 0},
		{"garbage only", "this is not an entry\nat all", 0},
		{"missing hash skipped", "generated-at: x\nfeatures-dir: f\n---\nassertion-hash: h\ngenerated-at: x\nfeatures-dir: f", 1},
		{"missing location skipped", "assertion-hash: h\ngenerated-at: x", 0},
		{"garbage segment between valid ones", "assertion-hash: h1\ngenerated-at: t\nfeatures-dir: a\n---\n???\n---\nassertion-hash: h2\ngenerated-at: t\nfeatures-dir: b", 2},
		{"unknown keys ignored", "assertion-hash: h\ngenerated-at: t\nfeatures-dir: f\nextra-key: whatever", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseNote(tt.body); len(got) != tt.want {
				t.Fatalf("ParseNote returned %d entries, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParseNoteTrimsValues(t *testing.T) {
	got := ParseNote("assertion-hash:   h1  \ngenerated-at: t\nfeatures-dir:  specs/features ")
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].AssertionHash != "h1" || got[0].FeaturesDir != "specs/features" {
		t.Fatalf("values not trimmed: %+v", got[0])
	}
}
