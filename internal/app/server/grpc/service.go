package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "shortener.URLResolver"

const (
	shortenMethod = "/" + ServiceName + "/Shorten"
	resolveMethod = "/" + ServiceName + "/Resolve"
)

// URLResolverServer is the server API for the shortener.URLResolver service.
//
// Shorten takes a Struct with a "long_url" string field and an optional
// "short_url" string field and returns the token. Resolve takes a token and
// returns the long URL.
type URLResolverServer interface {
	Shorten(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	Resolve(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// RegisterURLResolverServer registers srv on s.
func RegisterURLResolverServer(s grpc.ServiceRegistrar, srv URLResolverServer) {
	s.RegisterService(&URLResolverServiceDesc, srv)
}

func shortenHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(URLResolverServer).Shorten(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: shortenMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(URLResolverServer).Shorten(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func resolveHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(URLResolverServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: resolveMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(URLResolverServer).Resolve(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// URLResolverServiceDesc is the grpc.ServiceDesc for the shortener.URLResolver service.
var URLResolverServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*URLResolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Shorten",
			Handler:    shortenHandler,
		},
		{
			MethodName: "Resolve",
			Handler:    resolveHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shortener.proto",
}

// Client is a thin client for the shortener.URLResolver service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Shorten asks the server for a token for longURL. suggested may be empty.
func (c *Client) Shorten(ctx context.Context, longURL, suggested string, opts ...grpc.CallOption) (string, error) {
	fields := map[string]interface{}{"long_url": longURL}
	if suggested != "" {
		fields["short_url"] = suggested
	}
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return "", err
	}

	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, shortenMethod, in, out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// Resolve returns the long URL registered for token.
func (c *Client) Resolve(ctx context.Context, token string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, resolveMethod, wrapperspb.String(token), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}
