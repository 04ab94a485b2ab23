package upstream

import (
	"context"
	"errors"
	"fmt"

	"cache-service/core/kv"
	"cache-service/feature/catalog/models"

	"github.com/redis/go-redis/v9"
)

// Redis reads vintages stored as JSON strings under <prefix>:vintage:<id> and wine indexes
// stored as lists under <prefix>:wine:<wine id>:vintages.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates an upstream over client.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) vintageKey(id string) string {
	return kv.Key(r.prefix, "vintage", id)
}

func (r *Redis) wineKey(wineID string) string {
	return kv.Key(r.prefix, "wine", wineID, "vintages")
}

// FetchVintage loads one vintage.
func (r *Redis) FetchVintage(ctx context.Context, id string) (models.Vintage, bool, error) {
	data, err := r.client.Get(ctx, r.vintageKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Vintage{}, false, nil
	}
	if err != nil {
		return models.Vintage{}, false, fmt.Errorf("%w: get vintage %s: %v", ErrUnavailable, id, err)
	}
	return models.Vintage{ID: id, Raw: data}, true, nil
}

// FetchVintages loads the given vintages with one MGET.
func (r *Redis) FetchVintages(ctx context.Context, ids []string) (map[string]models.Vintage, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.vintageKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: mget %d vintages: %v", ErrUnavailable, len(ids), err)
	}

	out := make(map[string]models.Vintage, len(ids))
	for i, value := range values {
		s, ok := value.(string)
		if !ok {
			continue
		}
		out[ids[i]] = models.Vintage{ID: ids[i], Raw: []byte(s)}
	}
	return out, nil
}

// FetchWineVintageIndex loads the id list of a wine.
func (r *Redis) FetchWineVintageIndex(ctx context.Context, wineID string) ([]string, bool, error) {
	ids, err := r.client.LRange(ctx, r.wineKey(wineID), 0, -1).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: lrange wine %s: %v", ErrUnavailable, wineID, err)
	}
	if len(ids) == 0 {
		return nil, false, nil
	}
	return ids, true, nil
}

// Import writes every record and merges the wine indexes in one transaction. The wine each
// vintage belongs to is kept in the <prefix>:vintage_wines hash so a vintage that changes wine
// can be removed from its previous index.
func (r *Redis) Import(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}
	members := r.membersKey()

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.memberships(ctx, tx, records)
		if err != nil {
			return err
		}
		changes := moves(records, current)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, rec := range records {
				pipe.Set(ctx, r.vintageKey(rec.ID), []byte(rec.Payload), 0)
			}
			for _, m := range changes {
				if m.from != "" {
					pipe.LRem(ctx, r.wineKey(m.from), 0, m.id)
				}
				if m.to == "" {
					pipe.HDel(ctx, members, m.id)
					continue
				}
				pipe.LRem(ctx, r.wineKey(m.to), 0, m.id)
				pipe.RPush(ctx, r.wineKey(m.to), m.id)
				pipe.HSet(ctx, members, m.id, m.to)
			}
			return nil
		})
		return err
	}, members)
	if err != nil {
		return fmt.Errorf("import %d vintages: %w", len(records), err)
	}
	return nil
}

func (r *Redis) membersKey() string {
	return kv.Key(r.prefix, "vintage_wines")
}

// memberships returns the wine each imported vintage currently belongs to.
func (r *Redis) memberships(ctx context.Context, tx *redis.Tx, records []models.Record) (map[string]string, error) {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}

	values, err := tx.HMGet(ctx, r.membersKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("read vintage wines: %w", err)
	}

	current := make(map[string]string, len(ids))
	for i, value := range values {
		if wineID, ok := value.(string); ok && wineID != "" {
			current[ids[i]] = wineID
		}
	}
	return current, nil
}
