package waiver

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var now = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

const registryTOML = `
[[waiver]]
id = "WV-02"
location = "specs/billing/features"
reason = "billing rework in flight"
owner = "payments"
created_at = "2026-08-01"
expires_at = "2026-09-30"

[[waiver]]
id = "WV-01"
location = "specs/login/features"
reason = "flaky scenario under rewrite"
owner = "auth"
created_at = "2026-07-01"
expires_at = "2026-08-01"
`

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, ".specguard")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "waivers.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoadSortsAndComputesStatus(t *testing.T) {
	reg, err := Load(writeRegistry(t, registryTOML), now)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(reg.Waivers) != 2 {
		t.Fatalf("expected 2 waivers, got %d", len(reg.Waivers))
	}
	if reg.Waivers[0].ID != "WV-01" || reg.Waivers[1].ID != "WV-02" {
		t.Fatalf("waivers not sorted by id: %s, %s", reg.Waivers[0].ID, reg.Waivers[1].ID)
	}
	if reg.Waivers[0].Status != StatusExpired {
		t.Fatalf("WV-01 expired 2026-08-01, status = %s", reg.Waivers[0].Status)
	}
	if reg.Waivers[1].Status != StatusActive {
		t.Fatalf("WV-02 expires 2026-09-30, status = %s", reg.Waivers[1].Status)
	}
}

func TestCalculateStatus(t *testing.T) {
	tests := []struct {
		name    string
		expires string
		want    Status
	}{
		{"no expiry is perpetual", "", StatusActive},
		{"far future", "2026-12-31", StatusActive},
		{"within seven days", "2026-09-02", StatusExpiringSoon},
		{"expiry day inclusive", "2026-08-28", StatusExpiringSoon},
		{"past", "2026-08-27", StatusExpired},
		{"unparseable left to validation", "soon", StatusActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Waiver{ExpiresAt: tt.expires}
			if got := CalculateStatus(w, now); got != tt.want {
				t.Fatalf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLookupSkipsExpired(t *testing.T) {
	reg, err := Load(writeRegistry(t, registryTOML), now)
	if err != nil {
		t.Fatal(err)
	}
	if w := reg.Lookup("specs/login/features"); w != nil {
		t.Fatalf("expired waiver must not cover its location, got %s", w.ID)
	}
	w := reg.Lookup("specs/billing/features")
	if w == nil || w.ID != "WV-02" {
		t.Fatalf("expected WV-02 to cover billing, got %+v", w)
	}
}

func TestLookupSuffixMatch(t *testing.T) {
	reg := &Registry{Waivers: []Waiver{
		{ID: "WV-03", Location: "features", Status: StatusActive},
	}}
	if reg.Lookup("specs/login/features") == nil {
		t.Fatal("suffix location match must apply to waivers too")
	}
}

func TestLoadAbsentRegistry(t *testing.T) {
	reg, err := Load(t.TempDir(), now)
	if err != nil {
		t.Fatalf("absent registry must load empty: %v", err)
	}
	if len(reg.Waivers) != 0 {
		t.Fatalf("expected empty registry, got %d", len(reg.Waivers))
	}
}

func TestValidate(t *testing.T) {
	reg := &Registry{Waivers: []Waiver{
		{ID: "WV-01", Location: "a", Reason: "r", Owner: "o", CreatedAt: "2026-01-01"},
		{ID: "WV-01", Location: "", Reason: "", Owner: "o", CreatedAt: "01/02/2026"},
	}}
	errs := Validate(reg)
	if len(errs) != 4 {
		for _, e := range errs {
			t.Log(e)
		}
		t.Fatalf("expected 4 violations (dup id, missing location, missing reason, bad date), got %d", len(errs))
	}
}
