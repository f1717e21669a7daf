package hook

import (
	"log/slog"
	"path"
	"sort"
	"strings"

	"specguard/internal/fingerprint"
	"specguard/internal/record"
)

// source is a point-in-time snapshot: the staged index or a commit's
// tree. gitx.IndexLoader and gitx.CommitLoader both satisfy it.
type source interface {
	List(location string) ([]string, error)
	Read(path string) ([]byte, error)
}

// assertionSet is one discovered set with its format resolved.
type assertionSet struct {
	Location string
	Legacy   bool // location is a single legacy document, not a directory
}

// catalog indexes every context record in a snapshot.
type catalog struct {
	// featureDirs maps a feature directory (the dir holding a
	// context.json) to its governed set.
	featureDirs map[string]assertionSet
	// legacyDocs maps a legacy document path to its set.
	legacyDocs map[string]assertionSet
	// all lists every known set, sorted by location.
	all []assertionSet
}

// buildCatalog scans the snapshot for context records. Malformed
// records are skipped with a debug log — discovery must never crash
// the hook over one bad file.
func buildCatalog(src source, log *slog.Logger) (*catalog, error) {
	paths, err := src.List("")
	if err != nil {
		return nil, err
	}

	c := &catalog{
		featureDirs: make(map[string]assertionSet),
		legacyDocs:  make(map[string]assertionSet),
	}
	for _, p := range paths {
		if path.Base(p) != record.FileName {
			continue
		}
		data, err := src.Read(p)
		if err != nil {
			log.Debug("context record unreadable", "path", p, "err", err)
			continue
		}
		rec, err := record.Parse(data)
		if err != nil {
			log.Debug("context record malformed", "path", p, "err", err)
			continue
		}
		featureDir := path.Dir(p)
		set := assertionSet{
			Location: resolveLocation(paths, featureDir, rec.Location()),
			Legacy:   rec.FeaturesDir == "",
		}
		c.featureDirs[featureDir] = set
		if set.Legacy {
			c.legacyDocs[set.Location] = set
		}
		c.all = append(c.all, set)
	}
	sort.Slice(c.all, func(i, j int) bool { return c.all[i].Location < c.all[j].Location })
	return c, nil
}

// resolveLocation normalizes a record's declared location to a
// repo-relative path. Generators write it relative to the feature
// directory; if the declared path does not exist in the snapshot but
// the joined one does, the joined one wins.
func resolveLocation(paths []string, featureDir, declared string) string {
	declared = strings.TrimSuffix(path.Clean(declared), "/")
	if featureDir == "." || featureDir == "" {
		return declared
	}
	if existsUnder(paths, declared) {
		return declared
	}
	joined := path.Join(featureDir, declared)
	if existsUnder(paths, joined) {
		return joined
	}
	return joined
}

func existsUnder(paths []string, location string) bool {
	for _, p := range paths {
		if p == location || strings.HasPrefix(p, location+"/") {
			return true
		}
	}
	return false
}

// implicated maps changed paths to the assertion sets they implicate:
// assertion artifacts map to their own set, anything else maps to the
// set of the nearest ancestor feature directory. Paths governed by no
// set are ignored, which is what makes the fast-exit possible.
func (c *catalog) implicated(changed []string) []assertionSet {
	seen := make(map[string]assertionSet)
	add := func(s assertionSet) {
		if s.Location != "" {
			seen[s.Location] = s
		}
	}

	for _, p := range changed {
		switch {
		case path.Base(p) == record.FileName:
			// A staged context record implicates the set it certifies,
			// even when no scenario file changed.
			if s, ok := c.featureDirs[path.Dir(p)]; ok {
				add(s)
				continue
			}
			// Record not in the catalog snapshot (e.g. deleted);
			// nothing to verify for it.
		case c.legacyDocs[p].Location != "":
			add(c.legacyDocs[p])
		default:
			if s, ok := c.nearestFeatureSet(p); ok {
				add(s)
			} else if strings.HasSuffix(p, fingerprint.FeatureExt) {
				// Orphan scenario file with no governing record yet:
				// verify its directory so the first generation commit
				// gets a visible missing-baseline warning, not silence.
				add(assertionSet{Location: path.Dir(p)})
			}
		}
	}

	sets := make([]assertionSet, 0, len(seen))
	for _, s := range seen {
		sets = append(sets, s)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Location < sets[j].Location })
	return sets
}

// nearestFeatureSet walks ancestors of p looking for a feature
// directory, root included.
func (c *catalog) nearestFeatureSet(p string) (assertionSet, bool) {
	for dir := path.Dir(p); ; dir = path.Dir(dir) {
		if s, ok := c.featureDirs[dir]; ok {
			return s, true
		}
		if dir == "." || dir == "/" || dir == "" {
			return assertionSet{}, false
		}
	}
}
