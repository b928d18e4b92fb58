package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/visittracker/internal/logging"
	"github.com/dmitrijs2005/visittracker/internal/server/config"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

// Syncer is the part of the sync service the gRPC handlers need.
type Syncer interface {
	Reconcile(ctx context.Context, objects []models.Object, users []models.User) (*models.SyncSummary, error)
	Pull(ctx context.Context) (*models.Snapshot, error)
}

type GRPCServer struct {
	address     string
	sync        Syncer
	logger      logging.Logger
	jwtSecret   []byte
	requireAuth bool
	maxRecv     int
}

func NewGRPCServer(cfg *config.Config, l logging.Logger, sync Syncer) *GRPCServer {
	return &GRPCServer{
		address:     cfg.GRPCAddr,
		logger:      l.With("module", "grpc_server"),
		sync:        sync,
		jwtSecret:   []byte(cfg.SecretKey),
		requireAuth: cfg.RequireAuth,
		maxRecv:     int(cfg.MaxRequestBytes),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.MaxRecvMsgSize(s.maxRecv),
	)
	srv.RegisterService(&SyncServiceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
