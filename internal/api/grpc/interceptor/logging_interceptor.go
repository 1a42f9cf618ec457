package interceptor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"farmrent-backend/internal/logger"
	"farmrent-backend/internal/observability"
)

const requestIDKey = "x-request-id"

// Logging attaches a request-scoped logger, counts the call by status code
// and logs its outcome. It must run before the auth interceptor so rejected
// calls are counted too.
func Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(requestIDKey); len(ids) > 0 {
				requestID = ids[0]
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = logger.WithContext(ctx, "request_id", requestID, "rpc", info.FullMethod)
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDKey, requestID))

		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		observability.GRPCRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()

		if err != nil {
			logger.FromContext(ctx).Warn("gRPC call failed", "code", code.String(), "error", err, "duration", time.Since(start))
		} else {
			logger.FromContext(ctx).Debug("gRPC call handled", "duration", time.Since(start))
		}
		return resp, err
	}
}
