// Package waiver reads the tracked waiver registry: reviewed,
// time-boxed exemptions that downgrade an invalid verdict to a loud
// warning instead of a block. It is the auditable middle ground
// between blocking and a blanket --no-verify.
package waiver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"specguard/internal/record"
)

// Path is the registry file relative to the repository root.
const Path = ".specguard/waivers.toml"

// expiringSoonDays is the warning window before expiry.
const expiringSoonDays = 7

// Load reads and parses the registry, populating OriginalIndex and
// Status against now and sorting deterministically by (ID, index).
// An absent file is an empty registry.
func Load(root string, now time.Time) (*Registry, error) {
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(Path)))
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", Path, err)
	}

	var reg Registry
	if err := toml.Unmarshal(content, &reg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", Path, err)
	}

	for i := range reg.Waivers {
		w := &reg.Waivers[i]
		w.OriginalIndex = i
		w.Status = CalculateStatus(w, now)
	}

	sort.Slice(reg.Waivers, func(i, j int) bool {
		if reg.Waivers[i].ID == reg.Waivers[j].ID {
			return reg.Waivers[i].OriginalIndex < reg.Waivers[j].OriginalIndex
		}
		return reg.Waivers[i].ID < reg.Waivers[j].ID
	})

	return &reg, nil
}

// CalculateStatus determines a waiver's status at a given time. A
// missing expiry means perpetual; the expiry date itself is inclusive.
func CalculateStatus(w *Waiver, now time.Time) Status {
	if w.ExpiresAt == "" {
		return StatusActive
	}
	expires, err := time.Parse("2006-01-02", w.ExpiresAt)
	if err != nil {
		// Unparseable dates are caught by Validate; for status
		// purposes the waiver stays active.
		return StatusActive
	}
	if now.After(expires.Add(24 * time.Hour)) {
		return StatusExpired
	}
	if expires.Sub(now).Hours()/24 <= expiringSoonDays {
		return StatusExpiringSoon
	}
	return StatusActive
}

// Lookup returns the unexpired waiver covering location, or nil.
func (r *Registry) Lookup(location string) *Waiver {
	for i := range r.Waivers {
		w := &r.Waivers[i]
		if w.Status == StatusExpired {
			continue
		}
		if record.PathsMatch(w.Location, location) {
			return w
		}
	}
	return nil
}

// Validate checks required fields and constraints, returning one
// error per violation in deterministic order.
func Validate(reg *Registry) []error {
	var errs []error
	seen := make(map[string]bool)
	for _, w := range reg.Waivers {
		key := w.ID
		if key == "" {
			key = fmt.Sprintf("idx %d", w.OriginalIndex)
			errs = append(errs, fmt.Errorf("%s: missing id", key))
		} else if seen[w.ID] {
			errs = append(errs, fmt.Errorf("duplicate id: %s", w.ID))
		}
		seen[w.ID] = true

		if w.Location == "" {
			errs = append(errs, fmt.Errorf("%s: missing location", key))
		}
		if w.Reason == "" {
			errs = append(errs, fmt.Errorf("%s: missing reason", key))
		}
		if w.Owner == "" {
			errs = append(errs, fmt.Errorf("%s: missing owner", key))
		}
		for field, value := range map[string]string{"created_at": w.CreatedAt, "expires_at": w.ExpiresAt} {
			if value == "" {
				continue
			}
			if _, err := time.Parse("2006-01-02", value); err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid %s %q (must be YYYY-MM-DD)", key, field, value))
			}
		}
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errs
}
