package grpc

import (
	"context"
	"strconv"

	"farmrent-backend/internal/domain"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Metadata keys the auth interceptor sets from verified token claims.
const (
	UserIDKey   = "user-id"
	UserRoleKey = "user-role"
)

// GetActorFromContext extracts the caller identity from the gRPC metadata.
func GetActorFromContext(ctx context.Context) (domain.Actor, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return domain.Actor{}, status.Errorf(codes.Unauthenticated, "metadata is not provided")
	}

	userIDs := md.Get(UserIDKey)
	if len(userIDs) == 0 {
		return domain.Actor{}, status.Errorf(codes.Unauthenticated, "user_id is not provided in metadata")
	}
	userID, err := strconv.ParseInt(userIDs[0], 10, 64)
	if err != nil {
		return domain.Actor{}, status.Errorf(codes.InvalidArgument, "invalid user_id format: %v", err)
	}

	var role domain.Role
	if roles := md.Get(UserRoleKey); len(roles) > 0 {
		role = domain.Role(roles[0])
	}
	return domain.Actor{ID: userID, Role: role}, nil
}
