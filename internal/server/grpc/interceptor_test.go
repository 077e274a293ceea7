package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/logging"
	"github.com/dmitrijs2005/goinglive/internal/rpc"
	"github.com/dmitrijs2005/goinglive/internal/server/auth"
)

func newInterceptorServer(t *testing.T) *GRPCServer {
	t.Helper()
	s, err := NewGRPCServer("", logging.Nop(), nil, nil, nil, testSecret)
	require.NoError(t, err)
	return s
}

func incoming(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
}

func captureUser(ctx context.Context, _ any) (any, error) {
	id, _ := userIDFromContext(ctx)
	return id, nil
}

func TestAccessTokenInterceptor_PublicMethods(t *testing.T) {
	s := newInterceptorServer(t)

	for _, m := range []string{rpc.MethodPing, rpc.MethodLogin} {
		out, err := s.accessTokenInterceptor(context.Background(), nil,
			&grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(m)}, captureUser)
		require.NoError(t, err, m)
		assert.Equal(t, "", out)
	}
}

func TestAccessTokenInterceptor_ValidToken(t *testing.T) {
	s := newInterceptorServer(t)
	tok, _, err := auth.GenerateToken("u-42", []byte(testSecret), time.Hour)
	require.NoError(t, err)

	out, err := s.accessTokenInterceptor(incoming(tok), nil,
		&grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(rpc.MethodCommitContent)}, captureUser)
	require.NoError(t, err)
	assert.Equal(t, "u-42", out)
}

func TestAccessTokenInterceptor_Rejections(t *testing.T) {
	s := newInterceptorServer(t)
	expired, _, err := auth.GenerateToken("u", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	foreign, _, err := auth.GenerateToken("u", []byte("other"), time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name string
		ctx  context.Context
		msg  string
	}{
		{"no metadata", context.Background(), "missing token"},
		{"empty token", incoming(""), "missing token"},
		{"expired", incoming(expired), "token expired"},
		{"wrong key", incoming(foreign), "invalid token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			_, err := s.accessTokenInterceptor(tc.ctx, nil,
				&grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(rpc.MethodFetchContent)},
				func(ctx context.Context, req any) (any, error) { called = true; return nil, nil })
			st, _ := status.FromError(err)
			assert.Equal(t, codes.Unauthenticated, st.Code())
			assert.Equal(t, tc.msg, st.Message())
			assert.False(t, called)
		})
	}
}

func TestUserIDFromContext_Missing(t *testing.T) {
	_, ok := userIDFromContext(context.Background())
	assert.False(t, ok)
}
