package mirror

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/budgetbuddy/ledger/internal/common"
	pb "github.com/budgetbuddy/ledger/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Credentials is what the mirror server hands out on register or login.
type Credentials struct {
	OwnerID     string
	AccessToken string
}

// GRPCMirror talks to the mirror server. Besides the Mirror methods it
// exposes the account calls the session needs.
type GRPCMirror struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.MirrorClient
	timeout     time.Duration

	mu          sync.RWMutex
	accessToken string
}

func NewGRPCMirror(endpointURL string, timeout time.Duration) (*GRPCMirror, error) {
	m := &GRPCMirror{endpointURL: endpointURL, timeout: timeout}

	conn, err := grpc.NewClient(endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(m.accessTokenInterceptor))
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client: %w", err)
	}
	m.conn = conn
	m.client = pb.NewMirrorClient(conn)
	return m, nil
}

func (m *GRPCMirror) Close() error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}

// SetAccessToken installs a token restored from a saved session.
func (m *GRPCMirror) SetAccessToken(token string) {
	m.mu.Lock()
	m.accessToken = token
	m.mu.Unlock()
}

func (m *GRPCMirror) token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (m *GRPCMirror) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if t := m.token(); t != "" {
		ctx = withAccessToken(ctx, t)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (m *GRPCMirror) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.timeout)
}

func (m *GRPCMirror) Register(ctx context.Context, username, password string) (Credentials, error) {
	return m.authenticate(ctx, username, password, m.client.Register)
}

func (m *GRPCMirror) Login(ctx context.Context, username, password string) (Credentials, error) {
	return m.authenticate(ctx, username, password, m.client.Login)
}

type authCall func(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)

func (m *GRPCMirror) authenticate(ctx context.Context, username, password string, call authCall) (Credentials, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		pb.FieldUsername: structpb.NewStringValue(username),
		pb.FieldPassword: structpb.NewStringValue(password),
	}}

	resp, err := call(ctx, req)
	if err != nil {
		return Credentials{}, m.mapError(err)
	}

	creds := Credentials{
		OwnerID:     resp.GetFields()[pb.FieldOwnerID].GetStringValue(),
		AccessToken: resp.GetFields()[pb.FieldAccessToken].GetStringValue(),
	}
	if creds.OwnerID == "" {
		return Credentials{}, fmt.Errorf("server returned no owner id")
	}

	m.SetAccessToken(creds.AccessToken)
	return creds, nil
}

func (m *GRPCMirror) Ping(ctx context.Context) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	resp, err := m.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return m.mapError(err)
	}
	if resp.GetFields()[pb.FieldStatus].GetStringValue() != pb.StatusOK {
		return ErrUnavailable
	}
	return nil
}

func (m *GRPCMirror) Upsert(ctx context.Context, ownerID string, kind models.Kind, rec models.Record) error {
	if err := checkScope(ownerID, kind); err != nil {
		return err
	}

	req, err := structpb.NewStruct(map[string]any{
		pb.FieldOwnerID:    ownerID,
		pb.FieldCollection: kind.Collection(),
		pb.FieldDocID:      DocKey(rec.ID),
		pb.FieldDocument:   EncodeDocument(rec),
	})
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	if _, err := m.client.Upsert(ctx, req); err != nil {
		return m.mapError(err)
	}
	return nil
}

func (m *GRPCMirror) FetchAll(ctx context.Context, ownerID string, kind models.Kind) ([]models.Record, error) {
	if err := checkScope(ownerID, kind); err != nil {
		return nil, err
	}

	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		pb.FieldOwnerID:    structpb.NewStringValue(ownerID),
		pb.FieldCollection: structpb.NewStringValue(kind.Collection()),
	}}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	resp, err := m.client.FetchAll(ctx, req)
	if err != nil {
		return nil, m.mapError(err)
	}

	result := make([]models.Record, 0, len(resp.GetValues()))
	for _, v := range resp.GetValues() {
		doc := v.GetStructValue()
		if doc == nil {
			continue
		}
		if rec, ok := DecodeDocument(doc.AsMap()); ok {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *GRPCMirror) DeleteByID(ctx context.Context, ownerID string, kind models.Kind, id int64) error {
	if err := checkScope(ownerID, kind); err != nil {
		return err
	}

	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		pb.FieldOwnerID:    structpb.NewStringValue(ownerID),
		pb.FieldCollection: structpb.NewStringValue(kind.Collection()),
		pb.FieldDocID:      structpb.NewStringValue(DocKey(id)),
	}}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	if _, err := m.client.Delete(ctx, req); err != nil {
		return m.mapError(err)
	}
	return nil
}

func (m *GRPCMirror) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthenticated
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
