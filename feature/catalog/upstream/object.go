package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"

	"cache-service/core/storage"
	"cache-service/core/utils"
	"cache-service/feature/catalog/models"

	"github.com/minio/minio-go/v7"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const objectImportParallelism = 16

// Object reads vintages and wine indexes from JSON objects in a bucket:
// <vintage prefix>/<id>.json holds one record, <wine prefix>/<wine id>.json an array of ids.
type Object struct {
	client        storage.Client
	bucket        string
	vintagePrefix string
	winePrefix    string
}

// NewObject creates an upstream over bucket.
func NewObject(client storage.Client, bucket, vintagePrefix, winePrefix string) *Object {
	return &Object{
		client:        client,
		bucket:        bucket,
		vintagePrefix: vintagePrefix,
		winePrefix:    winePrefix,
	}
}

func (o *Object) vintageKey(id string) string {
	return path.Join(o.vintagePrefix, id+".json")
}

func (o *Object) wineKey(wineID string) string {
	return path.Join(o.winePrefix, wineID+".json")
}

// read returns the object body, or found == false when the object does not exist.
func (o *Object) read(ctx context.Context, key string) ([]byte, bool, error) {
	obj, err := o.client.GetObject(ctx, o.bucket, key, minio.GetObjectOptions{})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrUnavailable, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, false, fmt.Errorf("%w: read %s: %v", ErrUnavailable, key, err)
	}
	return data, true, nil
}

// FetchVintage loads one vintage object.
func (o *Object) FetchVintage(ctx context.Context, id string) (models.Vintage, bool, error) {
	data, found, err := o.read(ctx, o.vintageKey(id))
	if err != nil || !found {
		return models.Vintage{}, false, err
	}
	return models.Vintage{ID: id, Raw: data}, true, nil
}

// FetchWineVintageIndex loads the id list of a wine. An index that is not a JSON array is
// treated as absent; entries that are neither strings nor numbers are skipped.
func (o *Object) FetchWineVintageIndex(ctx context.Context, wineID string) ([]string, bool, error) {
	data, found, err := o.read(ctx, o.wineKey(wineID))
	if err != nil || !found {
		return nil, false, err
	}

	doc := gjson.ParseBytes(data)
	if !gjson.ValidBytes(data) || !doc.IsArray() {
		return nil, false, nil
	}
	var ids []string
	for _, elem := range doc.Array() {
		if id := utils.NormalizeID(utils.ToString(elem.Value())); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, len(ids) > 0, nil
}

// Import uploads every record and merges the index of each wine that gains or loses a vintage.
// The wine each vintage belongs to is kept in the <wine prefix>/_members.json manifest, which
// is written last.
func (o *Object) Import(ctx context.Context, records []models.Record) error {
	if err := o.ensureBucket(ctx); err != nil {
		return err
	}

	current, err := o.readMembers(ctx)
	if err != nil {
		return err
	}
	changes := moves(records, current)

	indexes := make(map[string][]string)
	for _, m := range changes {
		for _, wineID := range []string{m.from, m.to} {
			if _, loaded := indexes[wineID]; wineID == "" || loaded {
				continue
			}
			ids, _, err := o.FetchWineVintageIndex(ctx, wineID)
			if err != nil {
				return err
			}
			indexes[wineID] = ids
		}
	}
	for _, m := range changes {
		if m.from != "" {
			indexes[m.from] = slices.DeleteFunc(indexes[m.from], func(id string) bool { return id == m.id })
		}
		if m.to != "" && !slices.Contains(indexes[m.to], m.id) {
			indexes[m.to] = append(indexes[m.to], m.id)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(objectImportParallelism)

	for _, r := range records {
		g.Go(func() error {
			return o.put(gctx, o.vintageKey(r.ID), r.Payload)
		})
	}
	for wineID, ids := range indexes {
		if ids == nil {
			ids = []string{}
		}
		data, err := json.Marshal(ids)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return o.put(gctx, o.wineKey(wineID), data)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(changes) == 0 {
		return nil
	}
	data, err := json.Marshal(current)
	if err != nil {
		return err
	}
	return o.put(ctx, o.membersKey(), data)
}

func (o *Object) ensureBucket(ctx context.Context) error {
	exists, err := o.client.BucketExists(ctx, o.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", o.bucket, err)
	}
	if exists {
		return nil
	}
	if err := o.client.MakeBucket(ctx, o.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", o.bucket, err)
	}
	return nil
}

func (o *Object) membersKey() string {
	return path.Join(o.winePrefix, "_members.json")
}

// readMembers returns the vintage to wine manifest, empty when it does not exist yet.
func (o *Object) readMembers(ctx context.Context) (map[string]string, error) {
	data, found, err := o.read(ctx, o.membersKey())
	if err != nil {
		return nil, err
	}
	members := make(map[string]string)
	if !found {
		return members, nil
	}
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, fmt.Errorf("decode %s: %w", o.membersKey(), err)
	}
	return members, nil
}

func (o *Object) put(ctx context.Context, key string, data []byte) error {
	_, err := o.client.PutObject(ctx, o.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
