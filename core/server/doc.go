// Package server holds the listener configuration shared by the gRPC service and the
// HTTP admin server.
//
// # Configuration
//
// The Config struct defines the gRPC address, the HTTP admin port, the maximum gRPC
// message size (1 GiB by default, matching the clients in use) and the graceful
// shutdown timeout.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command to configure both listeners.
package server
