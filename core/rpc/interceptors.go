package rpc

import (
	"context"
	"fmt"
	"path"
	"time"

	"cache-service/core/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// observeUnary logs and measures every unary call.
func observeUnary(log *zap.Logger, metrics *Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		finish(log, metrics, info.FullMethod, start, err)
		return resp, err
	}
}

// observeStream logs and measures every streaming call.
func observeStream(log *zap.Logger, metrics *Metrics) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		finish(log, metrics, info.FullMethod, start, err)
		return err
	}
}

func finish(log *zap.Logger, metrics *Metrics, fullMethod string, start time.Time, err error) {
	elapsed := time.Since(start)
	code := status.Code(err)
	metrics.observe(path.Base(fullMethod), code, elapsed)

	l := logger.WithMethod(log, fullMethod)
	if err != nil && code != codes.Canceled && code != codes.DeadlineExceeded {
		l.Warn("Request failed", zap.String("code", code.String()), zap.Duration("duration", elapsed), zap.Error(err))
		return
	}
	l.Debug("Request served", zap.String("code", code.String()), zap.Duration("duration", elapsed))
}

// recoverUnary turns a handler panic into an Internal error.
func recoverUnary(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithMethod(log, info.FullMethod).Error("Handler panicked", zap.Error(fmt.Errorf("%v", r)))
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// recoverStream turns a streaming handler panic into an Internal error.
func recoverStream(log *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithMethod(log, info.FullMethod).Error("Handler panicked", zap.Error(fmt.Errorf("%v", r)))
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(srv, ss)
	}
}

// logDurations logs how long every client call took.
func logDurations(log *zap.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		log.Debug("Call finished",
			zap.String("method", method),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
}
