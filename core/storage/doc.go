// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small interface the object catalog upstream
// needs: checking and creating the bucket, uploading records and reading them back.
// This abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
// GetObject reports a missing object as ErrNotFound so callers can tell an absent
// record from an unreachable store.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "catalog")
package storage
