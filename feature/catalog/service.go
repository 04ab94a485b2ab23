package catalog

import (
	"context"
	"encoding/json"
	"slices"

	"cache-service/core/cache"
	"cache-service/core/utils"
	"cache-service/feature/catalog/models"
	"cache-service/feature/catalog/upstream"

	"go.uber.org/zap"
)

// Entity kinds, as reported in metrics and stats.
const (
	KindVintage   = "vintage"
	KindWineIndex = "wine_index"
)

// Service answers catalog lookups from the vintage and wine index caches.
// Every method returns an error only when ctx ends before the answer is ready; missing
// records produce the documented default instead.
type Service struct {
	vintages  *cache.Coordinator[string, models.Vintage]
	indexes   *cache.Coordinator[string, []string]
	keys      cache.Resolver[string]
	chunk     int
	fields    models.Fields
	threshold float64
	logger    *zap.Logger
}

// NewService creates a service reading through to u.
func NewService(u upstream.Upstream, cfg Config, cacheCfg cache.Config, logger *zap.Logger, metrics *cache.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := cfg.Fields
	if fields == (models.Fields{}) {
		fields = models.DefaultFields()
	}
	keys := cache.TrimResolver()

	vintageEngine := cache.NewEngine(KindVintage,
		cache.NewStore[string, models.Vintage](cacheCfg, cache.StringHasher),
		newVintageLoader(u), cacheCfg, logger, metrics,
	).WithValidator(validateVintage)

	indexEngine := cache.NewEngine(KindWineIndex,
		cache.NewStore[string, []string](cacheCfg, cache.StringHasher),
		newIndexLoader(u), cacheCfg, logger, metrics,
	)

	return &Service{
		vintages:  cache.NewCoordinator(vintageEngine, keys),
		indexes:   cache.NewCoordinator(indexEngine, keys),
		keys:      keys,
		chunk:     streamChunk(cacheCfg),
		fields:    fields,
		threshold: cfg.HighRatedThreshold,
		logger:    logger,
	}
}

// GetVintageByID returns the vintage record, or {} when it does not exist.
func (s *Service) GetVintageByID(ctx context.Context, vintageID string) (json.RawMessage, error) {
	v, found, err := s.vintages.Lookup(ctx, vintageID)
	if err != nil {
		return nil, err
	}
	if !found {
		return models.EmptyRecord, nil
	}
	return v.Raw, nil
}

// GetVintagesByIDs returns the records that exist in request order. Repeated ids repeat
// their record.
func (s *Service) GetVintagesByIDs(ctx context.Context, vintageIDs []string) ([]json.RawMessage, error) {
	found, err := s.vintages.Resolve(ctx, vintageIDs)
	if err != nil {
		return nil, err
	}

	out := make([]json.RawMessage, 0, len(found))
	for _, id := range vintageIDs {
		if v, ok := found[utils.NormalizeID(id)]; ok {
			out = append(out, v.Raw)
		}
	}
	return out, nil
}

// StreamVintagesByIDs calls fn with every record GetVintagesByIDs would return, in the
// same order. Ids are resolved one cache batch at a time and each chunk is delivered before
// the next is loaded.
func (s *Service) StreamVintagesByIDs(ctx context.Context, vintageIDs []string, fn func(json.RawMessage) error) error {
	for start := 0; start < len(vintageIDs); start += s.chunk {
		records, err := s.GetVintagesByIDs(ctx, vintageIDs[start:min(start+s.chunk, len(vintageIDs))])
		if err != nil {
			return err
		}
		for _, raw := range records {
			if err := fn(raw); err != nil {
				return err
			}
		}
	}
	return nil
}

func streamChunk(cfg cache.Config) int {
	if cfg.BatchSize > 0 {
		return cfg.BatchSize
	}
	return 500
}

// GetVintageTitleByID returns the title, or "".
func (s *Service) GetVintageTitleByID(ctx context.Context, vintageID string) (string, error) {
	v, found, err := s.vintages.Lookup(ctx, vintageID)
	if err != nil || !found {
		return "", err
	}
	return s.fields.Title(v), nil
}

// GetVintageTitlesByIDs returns one title per id, "" for misses.
func (s *Service) GetVintageTitlesByIDs(ctx context.Context, vintageIDs []string) ([]string, error) {
	found, err := s.vintages.Resolve(ctx, vintageIDs)
	if err != nil {
		return nil, err
	}
	return cache.Reorder(s.keys, project(found, s.fields.Title), vintageIDs, ""), nil
}

// GetPriceByVintageID returns the price, or 0.
func (s *Service) GetPriceByVintageID(ctx context.Context, vintageID string) (float64, error) {
	v, found, err := s.vintages.Lookup(ctx, vintageID)
	if err != nil || !found {
		return 0, err
	}
	return s.fields.Price(v), nil
}

// GetPricesByVintageIDs returns one price per id, 0 for misses.
func (s *Service) GetPricesByVintageIDs(ctx context.Context, vintageIDs []string) ([]float64, error) {
	found, err := s.vintages.Resolve(ctx, vintageIDs)
	if err != nil {
		return nil, err
	}
	return cache.Reorder(s.keys, project(found, s.fields.Price), vintageIDs, 0), nil
}

// GetWineIDByVintageID returns the parent wine id, or "0".
func (s *Service) GetWineIDByVintageID(ctx context.Context, vintageID string) (string, error) {
	v, found, err := s.vintages.Lookup(ctx, vintageID)
	if err != nil {
		return "", err
	}
	if !found {
		return utils.NullID, nil
	}
	return s.fields.WineID(v), nil
}

// GetWineIDsByVintageIDs returns one wine id per vintage id, "0" for misses.
func (s *Service) GetWineIDsByVintageIDs(ctx context.Context, vintageIDs []string) ([]string, error) {
	found, err := s.vintages.Resolve(ctx, vintageIDs)
	if err != nil {
		return nil, err
	}
	return cache.Reorder(s.keys, project(found, s.fields.WineID), vintageIDs, utils.NullID), nil
}

// GetUnorderedWineIDsByVintageIDs returns the wine ids of the distinct vintages that exist
// and have a parent wine, in completion order.
func (s *Service) GetUnorderedWineIDsByVintageIDs(ctx context.Context, vintageIDs []string) ([]string, error) {
	vintages, err := s.vintages.Unordered(ctx, vintageIDs)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(vintages))
	for _, v := range vintages {
		if wineID := s.fields.WineID(v); wineID != utils.NullID {
			out = append(out, wineID)
		}
	}
	return out, nil
}

// GetVintageIDsByWineID returns the vintages of a wine, empty when it has none.
func (s *Service) GetVintageIDsByWineID(ctx context.Context, wineID string) ([]string, error) {
	ids, found, err := s.indexes.Lookup(ctx, wineID)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}
	return slices.Clone(ids), nil
}

// GetVintageIDsByWineIDs returns the vintages of every wine concatenated in request order.
func (s *Service) GetVintageIDsByWineIDs(ctx context.Context, wineIDs []string) ([]string, error) {
	return cache.Flatten(ctx, s.indexes, wineIDs)
}

// GetBestVintageIDByWineID returns the best vintage of a wine, or "0" when it has none.
func (s *Service) GetBestVintageIDByWineID(ctx context.Context, wineID string) (string, error) {
	ids, found, err := s.indexes.Lookup(ctx, wineID)
	if err != nil {
		return "", err
	}
	if !found || len(ids) == 0 {
		return utils.NullID, nil
	}

	vintages, err := s.vintages.Resolve(ctx, ids)
	if err != nil {
		return "", err
	}
	return s.best(ids, vintages), nil
}

// GetBestVintageIDsByWineIDs returns one best vintage per wine id, "0" for wines with none.
func (s *Service) GetBestVintageIDsByWineIDs(ctx context.Context, wineIDs []string) ([]string, error) {
	indexes, vintages, err := s.resolveWines(ctx, wineIDs)
	if err != nil {
		return nil, err
	}

	bests := make(map[string]string, len(indexes))
	for wineID, ids := range indexes {
		if len(ids) > 0 {
			bests[wineID] = s.best(ids, vintages)
		}
	}
	return cache.Reorder(s.keys, bests, wineIDs, utils.NullID), nil
}

// GetUnorderedBestVintageIDsByWineIDs returns the best vintage of every distinct wine that
// has one, in completion order.
func (s *Service) GetUnorderedBestVintageIDsByWineIDs(ctx context.Context, wineIDs []string) ([]string, error) {
	lists, err := s.indexes.Unordered(ctx, wineIDs)
	if err != nil {
		return nil, err
	}
	vintages, err := s.vintages.Resolve(ctx, cache.Concat(lists))
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(lists))
	for _, ids := range lists {
		if len(ids) > 0 {
			out = append(out, s.best(ids, vintages))
		}
	}
	return out, nil
}

// GetHighRatedVintageIDsFromWineID returns the vintages of a wine rated at or above the
// threshold, in index order.
func (s *Service) GetHighRatedVintageIDsFromWineID(ctx context.Context, wineID string) ([]string, error) {
	ids, found, err := s.indexes.Lookup(ctx, wineID)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}

	vintages, err := s.vintages.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.highRated(ids, vintages), nil
}

// GetHighRatedVintageIDsFromWineIDs returns the high-rated vintages of every wine
// concatenated in request order.
func (s *Service) GetHighRatedVintageIDsFromWineIDs(ctx context.Context, wineIDs []string) ([]string, error) {
	indexes, vintages, err := s.resolveWines(ctx, wineIDs)
	if err != nil {
		return nil, err
	}

	lists := make([][]string, 0, len(wineIDs))
	for _, wineID := range wineIDs {
		if ids, ok := indexes[utils.NormalizeID(wineID)]; ok {
			lists = append(lists, s.highRated(ids, vintages))
		}
	}
	return cache.Concat(lists), nil
}

// InvalidateVintage drops a cached vintage. It reports whether one was cached.
func (s *Service) InvalidateVintage(vintageID string) bool {
	return s.vintages.Engine().Invalidate(utils.NormalizeID(vintageID))
}

// InvalidateWine drops a cached wine index. It reports whether one was cached.
func (s *Service) InvalidateWine(wineID string) bool {
	return s.indexes.Engine().Invalidate(utils.NormalizeID(wineID))
}

// Clear drops every cached vintage and wine index.
func (s *Service) Clear() {
	s.vintages.Engine().Clear()
	s.indexes.Engine().Clear()
}

// Stats reports the state of both caches.
func (s *Service) Stats() []cache.Stats {
	return []cache.Stats{s.vintages.Engine().Stats(), s.indexes.Engine().Stats()}
}

// resolveWines loads the indexes of wineIDs and every vintage they list.
func (s *Service) resolveWines(ctx context.Context, wineIDs []string) (map[string][]string, map[string]models.Vintage, error) {
	indexes, err := s.indexes.Resolve(ctx, wineIDs)
	if err != nil {
		return nil, nil, err
	}

	lists := make([][]string, 0, len(indexes))
	for _, ids := range indexes {
		lists = append(lists, ids)
	}
	vintages, err := s.vintages.Resolve(ctx, cache.Concat(lists))
	if err != nil {
		return nil, nil, err
	}
	return indexes, vintages, nil
}

// best picks the highest rated of ids, breaking ties by the lowest id. Vintages without a
// record rate 0. ids must not be empty.
func (s *Service) best(ids []string, vintages map[string]models.Vintage) string {
	best := ids[0]
	bestRating := s.fields.Rating(vintages[best])
	for _, id := range ids[1:] {
		rating := s.fields.Rating(vintages[id])
		if rating > bestRating || (rating == bestRating && utils.CompareIDs(id, best) < 0) {
			best, bestRating = id, rating
		}
	}
	return best
}

// highRated keeps the ids whose record is rated at or above the threshold.
func (s *Service) highRated(ids []string, vintages map[string]models.Vintage) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		v, ok := vintages[id]
		if ok && s.fields.Rating(v) >= s.threshold {
			out = append(out, id)
		}
	}
	return out
}

func project[T any](values map[string]models.Vintage, fn func(models.Vintage) T) map[string]T {
	out := make(map[string]T, len(values))
	for k, v := range values {
		out[k] = fn(v)
	}
	return out
}
