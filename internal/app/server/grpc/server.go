// Package grpc exposes the resolution service over gRPC.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/atinyakov/url-resolver/internal/app/service"
	"github.com/atinyakov/url-resolver/internal/intercepters"
	"github.com/atinyakov/url-resolver/internal/models"
)

// Server wraps the gRPC server and dependencies.
type Server struct {
	grpcServer *grpc.Server
	port       int
	logger     *zap.Logger
}

// New creates a new gRPC server instance.
func New(logger *zap.Logger, svc service.URLServiceIface, port int) *Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			intercepters.RequestID,
			logging.UnaryServerInterceptor(intercepters.InterceptorLogger(logger),
				logging.WithLogOnEvents(logging.FinishCall)),
			recovery.UnaryServerInterceptor(),
		),
	)

	RegisterURLResolverServer(s, NewShortenerServer(svc, logger))

	return &Server{
		grpcServer: s,
		port:       port,
		logger:     logger,
	}
}

// Start listens on the configured port and serves until stopped.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		s.logger.Error("gRPC server failed to listen:", zap.Error(err))
		return err
	}

	s.logger.Info("gRPC server listening on port", zap.Int("port", s.port))
	return s.Serve(lis)
}

// Serve accepts connections on lis.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// GracefulStop shuts down the server gracefully.
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}

// ShortenerServer implements URLResolverServer on top of the resolution service.
type ShortenerServer struct {
	Service service.URLServiceIface
	Logger  *zap.Logger
}

// NewShortenerServer returns the gRPC handler set.
func NewShortenerServer(svc service.URLServiceIface, logger *zap.Logger) *ShortenerServer {
	return &ShortenerServer{Service: svc, Logger: logger}
}

// Shorten returns the token for the long URL, creating it when needed.
func (s *ShortenerServer) Shorten(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	longURL, err := stringField(req, "long_url", true)
	if err != nil {
		return nil, err
	}
	suggested, err := stringField(req, "short_url", false)
	if err != nil {
		return nil, err
	}

	token, err := s.Service.CreateOrFetch(ctx, longURL, suggested)
	if err != nil {
		return nil, s.toStatus(err)
	}

	return wrapperspb.String(token), nil
}

// Resolve returns the long URL for a token.
func (s *ShortenerServer) Resolve(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	longURL, err := s.Service.Resolve(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(err)
	}

	return wrapperspb.String(longURL), nil
}

func stringField(req *structpb.Struct, name string, required bool) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		if required {
			return "", status.Errorf(codes.InvalidArgument, "missing field %q", name)
		}
		return "", nil
	}

	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "field %q must be a string", name)
	}
	return sv.StringValue, nil
}

func (s *ShortenerServer) toStatus(err error) error {
	var vErr *models.ValidationError

	switch {
	case errors.As(err, &vErr):
		return status.Error(codes.InvalidArgument, vErr.Error())
	case errors.Is(err, models.ErrNotFound):
		return status.Error(codes.NotFound, "URL not found")
	default:
		s.Logger.Error("request failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}
