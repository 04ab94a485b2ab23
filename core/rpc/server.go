package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"cache-service/core/server"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// Server serves a CachingServer over gRPC.
type Server struct {
	grpc   *grpc.Server
	logger *zap.Logger
}

// NewServer creates a gRPC server for impl with message limits from cfg.
func NewServer(cfg server.Config, impl CachingServer, logger *zap.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := grpc.NewServer(
		grpc.MaxRecvMsgSize(cfg.MaxMessageBytes),
		grpc.MaxSendMsgSize(cfg.MaxMessageBytes),
		grpc.ChainUnaryInterceptor(observeUnary(logger, metrics), recoverUnary(logger)),
		grpc.ChainStreamInterceptor(observeStream(logger, metrics), recoverStream(logger)),
	)
	RegisterCachingServer(s, impl)

	return &Server{grpc: s, logger: logger}
}

// Listen binds address and serves until the server is stopped.
func (s *Server) Listen(address string) error {
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return s.Serve(lis)
}

// Serve accepts connections on lis until the server is stopped.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Starting gRPC server", zap.String("address", lis.Addr().String()))
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Shutdown waits for in-flight calls to finish, cancelling them once ctx ends.
func (s *Server) Shutdown(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Graceful stop timed out, closing open calls")
		s.grpc.Stop()
		<-done
	}
}
