package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidPayload),
		errors.Is(err, common.ErrUnknownAction),
		errors.Is(err, common.ErrMissingID):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {

	return &PingResponse{Status: "OK", Service: common.ServiceName}, nil

}

func (s *GRPCServer) Pull(ctx context.Context, req *PullRequest) (*PullResponse, error) {

	snap, err := s.sync.Pull(ctx)
	if err != nil {
		s.logger.Error(ctx, "pull failed", "error", err)
		return nil, toStatus(err)
	}

	return &PullResponse{Objects: snap.Objects, Users: snap.Users}, nil

}

func (s *GRPCServer) Push(ctx context.Context, req *PushRequest) (*PushResponse, error) {

	s.logger.Info(ctx, "Sync request", "objects", len(req.Objects), "users", len(req.Users))

	sum, err := s.sync.Reconcile(ctx, req.Objects, req.Users)
	if err != nil {
		s.logger.Error(ctx, "sync failed", "error", err)
		return nil, toStatus(err)
	}

	users := sum.Users
	if users == nil {
		users = []models.User{}
	}

	return &PushResponse{
		MergedObjects:  sum.MergedObjects,
		UploadedPhotos: sum.UploadedMedia,
		FailedPhotos:   sum.FailedMedia,
		Users:          users,
	}, nil

}
