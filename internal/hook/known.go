package hook

import (
	"context"
	"io"
	"log/slog"

	"specguard/internal/gitx"
)

// KnownSets lists every assertion set certified by a context record in
// the staged index, sorted by location. The verify subcommand uses it
// when no explicit locations are given.
func KnownSets(ctx context.Context, repo *gitx.Repo, log *slog.Logger) ([]string, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cat, err := buildCatalog(gitx.IndexLoader{Ctx: ctx, Repo: repo}, log)
	if err != nil {
		return nil, err
	}
	locations := make([]string, 0, len(cat.all))
	for _, s := range cat.all {
		locations = append(locations, s.Location)
	}
	return locations, nil
}
