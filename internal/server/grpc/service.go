package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

const (
	ServiceName = "visittracker.SyncService"

	PingMethod = "/" + ServiceName + "/Ping"
	PullMethod = "/" + ServiceName + "/Pull"
	PushMethod = "/" + ServiceName + "/Push"
)

type PingRequest struct{}

type PingResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type PullRequest struct{}

type PullResponse struct {
	Objects []models.Object `json:"objects"`
	Users   []models.User   `json:"users"`
}

type PushRequest struct {
	Objects []models.Object `json:"objects"`
	Users   []models.User   `json:"users"`
}

type PushResponse struct {
	MergedObjects  int           `json:"merged_objects"`
	UploadedPhotos int           `json:"uploaded_photos"`
	FailedPhotos   int           `json:"failed_photos"`
	Users          []models.User `json:"users"`
}

// SyncServiceServer is the server API for the sync service.
type SyncServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Pull(context.Context, *PullRequest) (*PullResponse, error)
	Push(context.Context, *PushRequest) (*PushResponse, error)
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServiceServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PingMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServiceServer).Ping(ctx, req.(*PingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func pullHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PullRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServiceServer).Pull(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServiceServer).Pull(ctx, req.(*PullRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func pushHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PushRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServiceServer).Push(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PushMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServiceServer).Push(ctx, req.(*PushRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// SyncServiceDesc describes the service for grpc.Server.RegisterService.
var SyncServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "Pull", Handler: pullHandler},
		{MethodName: "Push", Handler: pushHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "visittracker/sync",
}

// SyncClient is a thin client for the sync service. Every call is sent
// with the JSON content-subtype.
type SyncClient struct {
	cc grpc.ClientConnInterface
}

func NewSyncClient(cc grpc.ClientConnInterface) *SyncClient {
	return &SyncClient{cc: cc}
}

func (c *SyncClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *SyncClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	if err := c.invoke(ctx, PingMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SyncClient) Pull(ctx context.Context, in *PullRequest, opts ...grpc.CallOption) (*PullResponse, error) {
	out := new(PullResponse)
	if err := c.invoke(ctx, PullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SyncClient) Push(ctx context.Context, in *PushRequest, opts ...grpc.CallOption) (*PushResponse, error) {
	out := new(PushResponse)
	if err := c.invoke(ctx, PushMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
