// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-bankroll-sync/models"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "bankroll.sync.v1.SyncService"

// Full method names, as seen by interceptors.
const (
	PullMethod = "/" + ServiceName + "/Pull"
	PushMethod = "/" + ServiceName + "/Push"
)

// SyncServer is the server side of the sync service.
type SyncServer interface {
	Pull(context.Context, *models.PullRequest) (*models.PullResponse, error)
	Push(context.Context, *models.PushRequest) (*models.PushAck, error)
}

// SyncServiceDesc describes the sync service for grpc.Server.RegisterService.
var SyncServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Pull", Handler: pullHandler},
		{MethodName: "Push", Handler: pushHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func pullHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.PullRequest)
	if err := dec(in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode pull request: %v", err)
	}
	if interceptor == nil {
		return srv.(SyncServer).Pull(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServer).Pull(ctx, req.(*models.PullRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func pushHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.PushRequest)
	if err := dec(in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode push request: %v", err)
	}
	if interceptor == nil {
		return srv.(SyncServer).Push(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PushMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServer).Push(ctx, req.(*models.PushRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// SyncClient calls the sync service over conn using the JSON codec.
type SyncClient struct {
	conn grpc.ClientConnInterface
}

func NewSyncClient(conn grpc.ClientConnInterface) *SyncClient {
	return &SyncClient{conn: conn}
}

func (c *SyncClient) Pull(ctx context.Context, req *models.PullRequest, opts ...grpc.CallOption) (*models.PullResponse, error) {
	out := new(models.PullResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.conn.Invoke(ctx, PullMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SyncClient) Push(ctx context.Context, req *models.PushRequest, opts ...grpc.CallOption) (*models.PushAck, error) {
	out := new(models.PushAck)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.conn.Invoke(ctx, PushMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
