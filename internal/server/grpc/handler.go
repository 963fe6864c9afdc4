package grpc

import (
	"context"
	"errors"
	"strconv"

	"github.com/budgetbuddy/ledger/internal/common"
	pb "github.com/budgetbuddy/ledger/internal/proto"
	"github.com/budgetbuddy/ledger/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const bodyIDField = "id"

// docIDValue keeps numeric document ids numeric in the returned body.
func docIDValue(docID string) *structpb.Value {
	if n, err := strconv.ParseInt(docID, 10, 64); err == nil {
		return structpb.NewNumberValue(float64(n))
	}
	return structpb.NewStringValue(docID)
}

func stringField(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

func credentialsResponse(c *services.Credentials) (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		pb.FieldOwnerID:     structpb.NewStringValue(c.UserID),
		pb.FieldAccessToken: structpb.NewStringValue(c.AccessToken),
	}}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username := stringField(req, pb.FieldUsername)
	password := []byte(stringField(req, pb.FieldPassword))
	defer common.WipeByteArray(password)

	creds, err := s.users.Register(ctx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyUsername), errors.Is(err, services.ErrShortPassword):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, common.ErrAlreadyExists):
			return nil, status.Error(codes.AlreadyExists, "username already taken")
		}
		s.logger.Error(ctx, "registration failed", "error", err.Error())
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.logger.Info(ctx, "Registered", "username", username, "user_id", creds.UserID)
	return credentialsResponse(creds)
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	password := []byte(stringField(req, pb.FieldPassword))
	defer common.WipeByteArray(password)

	creds, err := s.users.Login(ctx, stringField(req, pb.FieldUsername), password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	return credentialsResponse(creds)
}

func (s *GRPCServer) Ping(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		pb.FieldStatus: structpb.NewStringValue(pb.StatusOK),
	}}, nil
}

// scope returns the owner and collection of a document request after
// checking the owner is the caller.
func scope(ctx context.Context, req *structpb.Struct) (owner, collection string, err error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return "", "", status.Error(codes.Unauthenticated, "missing user")
	}
	owner = stringField(req, pb.FieldOwnerID)
	if owner != userID {
		return "", "", status.Error(codes.PermissionDenied, "owner mismatch")
	}
	return owner, stringField(req, pb.FieldCollection), nil
}

func documentError(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidCollection), errors.Is(err, common.ErrInvalidDocument):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Upsert(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	owner, collection, err := scope(ctx, req)
	if err != nil {
		return nil, err
	}

	doc := req.GetFields()[pb.FieldDocument].GetStructValue()
	if doc == nil {
		return nil, status.Error(codes.InvalidArgument, "missing document")
	}
	body, err := protojson.Marshal(doc)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "malformed document")
	}

	if err := s.documents.Upsert(ctx, owner, collection, stringField(req, pb.FieldDocID), body); err != nil {
		return nil, documentError(err)
	}
	return &emptypb.Empty{}, nil
}

// FetchAll returns the caller's documents with each body's "id" set to its
// document id. Stored bodies that no longer parse are skipped.
func (s *GRPCServer) FetchAll(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	owner, collection, err := scope(ctx, req)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.List(ctx, owner, collection)
	if err != nil {
		return nil, documentError(err)
	}

	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(docs))}
	for _, d := range docs {
		body := &structpb.Struct{}
		if err := protojson.Unmarshal(d.Body, body); err != nil {
			s.logger.Warn(ctx, "skipping malformed document", "doc_id", d.DocID, "error", err.Error())
			continue
		}
		if body.Fields == nil {
			body.Fields = map[string]*structpb.Value{}
		}
		body.Fields[bodyIDField] = docIDValue(d.DocID)
		out.Values = append(out.Values, structpb.NewStructValue(body))
	}
	return out, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	owner, collection, err := scope(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.documents.Delete(ctx, owner, collection, stringField(req, pb.FieldDocID)); err != nil {
		return nil, documentError(err)
	}
	return &emptypb.Empty{}, nil
}
