package client

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/rpc"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.CourseEditorClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(t string) {
	s.mu.Lock()
	s.accessToken = t
	s.mu.Unlock()
}

// accessTokenInterceptor attaches the current access token. A rejected token
// is dropped so the next call reports ErrNoSession until the user logs in
// again.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	token := s.token()
	if token != "" {
		ctx = withAccessToken(ctx, token)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if token != "" && status.Code(err) == codes.Unauthenticated {
		s.mu.Lock()
		if s.accessToken == token {
			s.accessToken = ""
		}
		s.mu.Unlock()
	}
	return err
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewCourseEditorClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Login(ctx context.Context, username, password string) error {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Username: username, Password: password})
	if err != nil {
		return s.mapError(err)
	}

	s.setToken(resp.AccessToken)
	return nil
}

func (s *GRPCClient) Logout() {
	s.setToken("")
}

// requireSession fails fast when no login has been made.
func (s *GRPCClient) requireSession() error {
	if s.token() == "" {
		return ErrNoSession
	}
	return nil
}

func (s *GRPCClient) Session(ctx context.Context) (*course.Profile, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	resp, err := s.client.Session(ctx, &rpc.SessionRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Profile, nil
}

func (s *GRPCClient) FetchContent(ctx context.Context, courseID string) (course.Snapshot, error) {
	if err := s.requireSession(); err != nil {
		return course.Snapshot{}, err
	}
	resp, err := s.client.FetchContent(ctx, &rpc.FetchContentRequest{CourseID: courseID})
	if err != nil {
		return course.Snapshot{}, s.mapError(err)
	}
	return resp.Snapshot, nil
}

func (s *GRPCClient) CommitContent(ctx context.Context, courseID string, snapshot course.Snapshot) (course.Snapshot, error) {
	if err := s.requireSession(); err != nil {
		return course.Snapshot{}, err
	}
	resp, err := s.client.CommitContent(ctx, &rpc.CommitContentRequest{CourseID: courseID, Snapshot: snapshot})
	if err != nil {
		return course.Snapshot{}, s.mapError(err)
	}
	return resp.Snapshot, nil
}

func (s *GRPCClient) PresignUpload(ctx context.Context, req *rpc.PresignUploadRequest) (*rpc.PresignUploadResponse, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	resp, err := s.client.PresignUpload(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) RegisterMedia(ctx context.Context, rec course.MediaRecord) (*course.MediaRecord, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	resp, err := s.client.RegisterMedia(ctx, &rpc.RegisterMediaRequest{Media: rec})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Media, nil
}

func (s *GRPCClient) ListMedia(ctx context.Context, courseID string) ([]course.MediaRecord, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	resp, err := s.client.ListMedia(ctx, &rpc.ListMediaRequest{CourseID: courseID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Media, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrForbidden, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument, codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
