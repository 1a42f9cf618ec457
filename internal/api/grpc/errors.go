package grpc

import (
	"context"
	"errors"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ErrorKindKey is the trailer carrying domain.Kind of a failed call.
const ErrorKindKey = "error-kind"

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{domain.ErrInvalidDateRange, codes.InvalidArgument},
	{domain.ErrInvalidArgument, codes.InvalidArgument},
	{domain.ErrEquipmentUnavailable, codes.FailedPrecondition},
	{domain.ErrInvalidTransition, codes.FailedPrecondition},
	{domain.ErrSlotConflict, codes.Aborted},
	{domain.ErrTokenInvalid, codes.PermissionDenied},
	{domain.ErrForbidden, codes.PermissionDenied},
	{domain.ErrNotFound, codes.NotFound},
	{domain.ErrStorageUnavailable, codes.Unavailable},
}

func codeFor(err error) codes.Code {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	return codes.Internal
}

// toStatus turns a service error into a gRPC status carrying only the
// user-visible reason. Status errors pass through unchanged.
func toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := codeFor(err)
	if code == codes.Internal {
		logger.ErrorContext(ctx, "Unclassified service error", "error", err)
	}
	_ = grpc.SetTrailer(ctx, metadata.Pairs(ErrorKindKey, domain.Kind(err)))
	return status.Error(code, domain.Reason(err))
}
