package policy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	p := Default()
	if p.TestFirst != TestFirstAdvisory {
		t.Fatalf("default test_first = %s", p.TestFirst)
	}
	if p.VerifyAll {
		t.Fatal("verify_all must default to false")
	}
	if p.SearchDepth != 50 {
		t.Fatalf("default search_depth = %d", p.SearchDepth)
	}
	if p.NotesRef != "testify" {
		t.Fatalf("default notes_ref = %s", p.NotesRef)
	}
}

func TestLoadAbsentFileYieldsDefaults(t *testing.T) {
	p, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p != Default() {
		t.Fatalf("expected defaults, got %+v", p)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	content := "test_first: mandatory\nverify_all: true\nsearch_depth: 10\nnotes_ref: custom\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !p.Mandatory() || !p.VerifyAll || p.SearchDepth != 10 || p.NotesRef != "custom" {
		t.Fatalf("unexpected policy: %+v", p)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown test_first", "test_first: strict\n"},
		{"negative depth", "search_depth: -1\n"},
		{"zero depth", "search_depth: 0\n"},
		{"blank notes_ref", "notes_ref: \"  \"\n"},
		{"not yaml", ":\n :::\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvNotesRef, "override-ref")
	t.Setenv(EnvSearchDepth, "7")
	p, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.NotesRef != "override-ref" {
		t.Fatalf("notes_ref override not applied: %s", p.NotesRef)
	}
	if p.SearchDepth != 7 {
		t.Fatalf("search_depth override not applied: %d", p.SearchDepth)
	}
}

func TestEnvOverrideRejectsGarbage(t *testing.T) {
	t.Setenv(EnvSearchDepth, "not-a-number")
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected an error for a non-numeric depth override")
	}
}
