package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const storefrontServiceName = "catalog.v1.Storefront"

// StorefrontServer is the read-only catalog service. Messages are protobuf
// well-known types so no generated code is needed.
type StorefrontServer interface {
	ListProducts(ctx context.Context, query *structpb.Struct) (*structpb.Struct, error)
	GetProduct(ctx context.Context, id *wrapperspb.StringValue) (*structpb.Struct, error)
	GetFeatured(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterStorefrontServer(s grpc.ServiceRegistrar, srv StorefrontServer) {
	s.RegisterService(&storefrontServiceDesc, srv)
}

var storefrontServiceDesc = grpc.ServiceDesc{
	ServiceName: storefrontServiceName,
	HandlerType: (*StorefrontServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListProducts", Handler: listProductsHandler},
		{MethodName: "GetProduct", Handler: getProductHandler},
		{MethodName: "GetFeatured", Handler: getFeaturedHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/storefront.proto",
}

func listProductsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StorefrontServer).ListProducts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + storefrontServiceName + "/ListProducts"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StorefrontServer).ListProducts(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getProductHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StorefrontServer).GetProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + storefrontServiceName + "/GetProduct"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StorefrontServer).GetProduct(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getFeaturedHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StorefrontServer).GetFeatured(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + storefrontServiceName + "/GetFeatured"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StorefrontServer).GetFeatured(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// StorefrontClient calls a remote Storefront service.
type StorefrontClient struct {
	cc grpc.ClientConnInterface
}

func NewStorefrontClient(cc grpc.ClientConnInterface) *StorefrontClient {
	return &StorefrontClient{cc: cc}
}

func (c *StorefrontClient) ListProducts(ctx context.Context, query *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+storefrontServiceName+"/ListProducts", query, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) GetProduct(ctx context.Context, id *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+storefrontServiceName+"/GetProduct", id, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) GetFeatured(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+storefrontServiceName+"/GetFeatured", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
