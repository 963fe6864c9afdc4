package grpc

import (
	"context"
	"time"

	"github.com/budgetbuddy/ledger/internal/common"
	pb "github.com/budgetbuddy/ledger/internal/proto"
	"github.com/budgetbuddy/ledger/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// protected lists the methods that need a valid access token.
var protected = map[string]bool{
	pb.MethodUpsert:   true,
	pb.MethodFetchAll: true,
	pb.MethodDelete:   true,
}

func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if protected[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		ctx = context.WithValue(ctx, userIDKey, userID)
	}

	return handler(ctx, req)
}

// loggingInterceptor tags every call with a request id and logs its outcome.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	requestID := uuid.NewString()

	resp, err := handler(ctx, req)

	args := []any{"request_id", requestID, "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start)}
	if err != nil && status.Code(err) == codes.Internal {
		s.logger.Error(ctx, "rpc failed", append(args, "error", err.Error())...)
	} else {
		s.logger.Debug(ctx, "rpc", args...)
	}
	return resp, err
}
