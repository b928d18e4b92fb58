package grpc

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/logging"
	"github.com/dmitrijs2005/visittracker/internal/server/auth"
)

// helper to build server
func newTestServer(secret string, requireAuth bool) *GRPCServer {
	return &GRPCServer{
		logger:      logging.Nop{},
		jwtSecret:   []byte(secret),
		requireAuth: requireAuth,
		sync:        &fakeSync{},
	}
}

func TestInterceptor_Pull_AllowsWithoutToken(t *testing.T) {
	s := newTestServer("secret", true)

	info := &grpc.UnaryServerInfo{FullMethod: PullMethod}
	handlerCalled := false

	h := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled {
		t.Fatal("handler was not called")
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
}

func TestInterceptor_Push_AuthDisabled(t *testing.T) {
	s := newTestServer("secret", false)

	info := &grpc.UnaryServerInfo{FullMethod: PushMethod}
	h := func(ctx context.Context, req any) (any, error) { return "ok", nil }

	if _, err := s.accessTokenInterceptor(context.Background(), nil, info, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInterceptor_Push_MissingToken(t *testing.T) {
	s := newTestServer("secret", true)

	info := &grpc.UnaryServerInfo{FullMethod: PushMethod}

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if err == nil {
		t.Fatal("expected error")
	}
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "missing token" {
		t.Fatalf("expected 'missing token', got %q", status.Convert(err).Message())
	}
}

func TestInterceptor_Push_InvalidToken(t *testing.T) {
	s := newTestServer("secret", true)

	md := metadata.New(map[string]string{
		common.AccessTokenHeaderName: "not-a-valid-jwt",
	})
	ctx := metadata.NewIncomingContext(context.Background(), md)
	info := &grpc.UnaryServerInfo{FullMethod: PushMethod}

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called for invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(ctx, nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
}

func TestInterceptor_Push_ValidToken_SetsUserID(t *testing.T) {
	secret := "super-secret"
	s := newTestServer(secret, true)

	userID := "user-123"
	token, err := auth.GenerateToken(userID, "technician", []byte(secret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	md := metadata.New(map[string]string{
		common.AccessTokenHeaderName: token,
	})
	ctx := metadata.NewIncomingContext(context.Background(), md)
	info := &grpc.UnaryServerInfo{FullMethod: PushMethod}

	var gotFromCtx any
	h := func(ctx context.Context, req any) (any, error) {
		gotFromCtx = ctx.Value(UserIDKey)
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(ctx, nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
	if gotFromCtx != userID {
		t.Fatalf("user id not propagated in context: got %v want %v", gotFromCtx, userID)
	}
}
