package catalog

import (
	"context"

	"cache-service/core/cache"
	"cache-service/core/utils"
	"cache-service/feature/catalog/models"
	"cache-service/feature/catalog/upstream"
)

// vintageLoader loads vintages one at a time.
type vintageLoader struct {
	upstream upstream.Upstream
}

func (l vintageLoader) Load(ctx context.Context, id string) (models.Vintage, bool, error) {
	return l.upstream.FetchVintage(ctx, id)
}

// batchVintageLoader adds batched loads for upstreams that support them.
type batchVintageLoader struct {
	vintageLoader
	batch upstream.BatchFetcher
}

func (l batchVintageLoader) LoadMany(ctx context.Context, ids []string) (map[string]models.Vintage, error) {
	return l.batch.FetchVintages(ctx, ids)
}

func newVintageLoader(u upstream.Upstream) cache.Loader[string, models.Vintage] {
	base := vintageLoader{upstream: u}
	if batch, ok := u.(upstream.BatchFetcher); ok {
		return batchVintageLoader{vintageLoader: base, batch: batch}
	}
	return base
}

// newIndexLoader trims the ids of every loaded index and drops blank ones so they match the
// keys of the vintage cache.
func newIndexLoader(u upstream.Upstream) cache.Loader[string, []string] {
	return cache.LoaderFunc[string, []string](func(ctx context.Context, wineID string) ([]string, bool, error) {
		ids, found, err := u.FetchWineVintageIndex(ctx, wineID)
		if err != nil || !found {
			return nil, false, err
		}
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if id = utils.NormalizeID(id); id != "" {
				out = append(out, id)
			}
		}
		return out, len(out) > 0, nil
	})
}

func validateVintage(_ string, v models.Vintage) error {
	return v.Validate()
}
