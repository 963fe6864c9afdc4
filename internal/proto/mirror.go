// Package proto describes the mirror gRPC service. Messages are the
// well-known structpb/emptypb types, so no generated code is needed; the
// field names each method expects are listed next to its constant.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "budgetbuddy.mirror.v1.Mirror"

const (
	// {username, password} -> {owner_id, access_token}
	MethodRegister = "/" + ServiceName + "/Register"
	// {username, password} -> {owner_id, access_token}
	MethodLogin = "/" + ServiceName + "/Login"
	// Empty -> {status}
	MethodPing = "/" + ServiceName + "/Ping"
	// {owner_id, collection, doc_id, document} -> Empty
	MethodUpsert = "/" + ServiceName + "/Upsert"
	// {owner_id, collection} -> [document...]
	MethodFetchAll = "/" + ServiceName + "/FetchAll"
	// {owner_id, collection, doc_id} -> Empty
	MethodDelete = "/" + ServiceName + "/Delete"
)

// Request/response field names.
const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldOwnerID     = "owner_id"
	FieldAccessToken = "access_token"
	FieldStatus      = "status"
	FieldCollection  = "collection"
	FieldDocID       = "doc_id"
	FieldDocument    = "document"
)

const StatusOK = "OK"

type MirrorClient interface {
	Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Upsert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	FetchAll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
	Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type mirrorClient struct {
	cc grpc.ClientConnInterface
}

func NewMirrorClient(cc grpc.ClientConnInterface) MirrorClient {
	return &mirrorClient{cc: cc}
}

func (c *mirrorClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodRegister, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mirrorClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodLogin, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mirrorClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodPing, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mirrorClient) Upsert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodUpsert, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mirrorClient) FetchAll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, MethodFetchAll, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mirrorClient) Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodDelete, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
