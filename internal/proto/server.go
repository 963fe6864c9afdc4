package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type MirrorServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Upsert(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	FetchAll(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	Delete(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

func RegisterMirrorServer(s grpc.ServiceRegistrar, srv MirrorServer) {
	s.RegisterService(&MirrorServiceDesc, srv)
}

// unary adapts a typed server method to grpc.MethodHandler, running the
// chained interceptors like generated code does.
func unary[Req, Resp proto.Message](method string, newReq func() Req, call func(MirrorServer, context.Context, Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MirrorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MirrorServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func newStruct() *structpb.Struct { return new(structpb.Struct) }
func newEmpty() *emptypb.Empty    { return new(emptypb.Empty) }

var MirrorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MirrorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(MethodRegister, newStruct, MirrorServer.Register)},
		{MethodName: "Login", Handler: unary(MethodLogin, newStruct, MirrorServer.Login)},
		{MethodName: "Ping", Handler: unary(MethodPing, newEmpty, MirrorServer.Ping)},
		{MethodName: "Upsert", Handler: unary(MethodUpsert, newStruct, MirrorServer.Upsert)},
		{MethodName: "FetchAll", Handler: unary(MethodFetchAll, newStruct, MirrorServer.FetchAll)},
		{MethodName: "Delete", Handler: unary(MethodDelete, newStruct, MirrorServer.Delete)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "budgetbuddy/mirror/v1/mirror.proto",
}
