package upstream

import (
	"context"
	"errors"

	"cache-service/feature/catalog/models"
)

// Driver names accepted by catalog.upstream.
const (
	DriverSQL    = "sql"
	DriverObject = "object"
	DriverRedis  = "redis"
)

// ErrUnavailable wraps failures to reach the backing store. Lookups retry them.
var ErrUnavailable = errors.New("upstream unavailable")

// Upstream is the authoritative catalog the cache reads through to.
// A record that does not exist is reported with found == false and a nil error.
type Upstream interface {
	FetchVintage(ctx context.Context, id string) (v models.Vintage, found bool, err error)
	FetchWineVintageIndex(ctx context.Context, wineID string) (ids []string, found bool, err error)
}

// BatchFetcher is implemented by upstreams that can load many vintages in one call.
// Ids missing from the result do not exist.
type BatchFetcher interface {
	FetchVintages(ctx context.Context, ids []string) (map[string]models.Vintage, error)
}

// Importer writes records into an upstream. Records replace existing ones with the same id.
// Wine indexes are merged: an imported vintage is appended to its wine's index once and
// removed from the index of the wine it previously belonged to.
type Importer interface {
	Import(ctx context.Context, records []models.Record) error
}

// Store is an upstream that can also be seeded.
type Store interface {
	Upstream
	Importer
}

// move is a change of wine for one vintage. An empty wine id means no wine.
type move struct {
	id, from, to string
}

// moves replays records over current, the vintage to wine membership before the import,
// and returns every change in record order. current is updated in place.
func moves(records []models.Record, current map[string]string) []move {
	var out []move
	for _, r := range records {
		from := current[r.ID]
		if from == r.WineID {
			continue
		}
		out = append(out, move{id: r.ID, from: from, to: r.WineID})
		if r.WineID == "" {
			delete(current, r.ID)
		} else {
			current[r.ID] = r.WineID
		}
	}
	return out
}
