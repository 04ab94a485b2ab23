package server

import (
	"fmt"
	"time"
)

// Config holds configuration for the network listeners.
type Config struct {
	// Port is the port where the HTTP admin server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// GRPCAddress is the address the gRPC caching service listens on.
	GRPCAddress string `mapstructure:"grpc_address" default:":50051"`
	// MaxMessageBytes caps gRPC messages in both directions.
	MaxMessageBytes int `mapstructure:"max_message_bytes" default:"1073741824"`
	// ShutdownTimeout bounds the graceful stop of both servers.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"15s"`
}

// Validate reports settings the servers cannot start with.
func (c Config) Validate() error {
	if c.GRPCAddress == "" {
		return fmt.Errorf("server.grpc_address must be set")
	}
	if c.Port == "" {
		return fmt.Errorf("server.port must be set")
	}
	if c.MaxMessageBytes <= 0 {
		return fmt.Errorf("server.max_message_bytes must be positive, got %d", c.MaxMessageBytes)
	}
	return nil
}
