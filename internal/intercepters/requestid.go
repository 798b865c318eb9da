package intercepters

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/atinyakov/url-resolver/internal/middleware"
)

const requestIDMetadataKey = "x-request-id"

// RequestID mirrors the HTTP request id middleware: it reuses the
// x-request-id metadata or assigns a new UUID and returns it in the header.
func RequestID(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	var id string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(requestIDMetadataKey); len(ids) > 0 {
			id = ids[0]
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDMetadataKey, id))

	return handler(context.WithValue(ctx, middleware.RequestIDKey, id), req)
}
