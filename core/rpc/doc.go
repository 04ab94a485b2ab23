// Package rpc exposes the caching service over gRPC.
//
// Messages are plain Go structs carried by a JSON codec registered under the "json"
// content subtype, and the service descriptor is written by hand, so no generated code
// is involved. Method and field names match the wire contract the existing clients use
// (service caching.Caching, methods such as get_vintage_by_id).
//
// # Server
//
// NewServer wraps a CachingServer with logging, Prometheus metrics and panic recovery,
// and raises the send and receive limits to server.max_message_bytes (1 GiB by default).
//
// # Client
//
// Client has one typed method per operation and logs the duration of every call at
// debug level.
//
//	client, err := rpc.Dial("localhost:50051", 0, log)
//	defer client.Close()
//	titles, err := client.GetVintageTitlesByIDs(ctx, []string{"7", "8"})
package rpc
