// Package grpc serves the mirror service over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/budgetbuddy/ledger/internal/logging"
	pb "github.com/budgetbuddy/ledger/internal/proto"
	"github.com/budgetbuddy/ledger/internal/server/models"
	"github.com/budgetbuddy/ledger/internal/server/services"
	"google.golang.org/grpc"
)

type userService interface {
	Register(ctx context.Context, username string, password []byte) (*services.Credentials, error)
	Login(ctx context.Context, username string, password []byte) (*services.Credentials, error)
}

type documentService interface {
	Upsert(ctx context.Context, ownerID, collection, docID string, body []byte) error
	List(ctx context.Context, ownerID, collection string) ([]models.Document, error)
	Delete(ctx context.Context, ownerID, collection, docID string) error
}

type GRPCServer struct {
	address   string
	users     userService
	documents documentService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us userService, ds documentService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		documents: ds,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterMirrorServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
