package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// CourseEditorClient is the client API of the CourseEditor service.
type CourseEditorClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Session(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	FetchContent(ctx context.Context, in *FetchContentRequest, opts ...grpc.CallOption) (*FetchContentResponse, error)
	CommitContent(ctx context.Context, in *CommitContentRequest, opts ...grpc.CallOption) (*CommitContentResponse, error)
	PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignUploadResponse, error)
	RegisterMedia(ctx context.Context, in *RegisterMediaRequest, opts ...grpc.CallOption) (*RegisterMediaResponse, error)
	ListMedia(ctx context.Context, in *ListMediaRequest, opts ...grpc.CallOption) (*ListMediaResponse, error)
}

type courseEditorClient struct {
	cc grpc.ClientConnInterface
}

func NewCourseEditorClient(cc grpc.ClientConnInterface) CourseEditorClient {
	return &courseEditorClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *courseEditorClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *courseEditorClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *courseEditorClient) Session(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodSession, in, opts)
}

func (c *courseEditorClient) FetchContent(ctx context.Context, in *FetchContentRequest, opts ...grpc.CallOption) (*FetchContentResponse, error) {
	return invoke[FetchContentResponse](ctx, c.cc, MethodFetchContent, in, opts)
}

func (c *courseEditorClient) CommitContent(ctx context.Context, in *CommitContentRequest, opts ...grpc.CallOption) (*CommitContentResponse, error) {
	return invoke[CommitContentResponse](ctx, c.cc, MethodCommitContent, in, opts)
}

func (c *courseEditorClient) PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignUploadResponse, error) {
	return invoke[PresignUploadResponse](ctx, c.cc, MethodPresignUpload, in, opts)
}

func (c *courseEditorClient) RegisterMedia(ctx context.Context, in *RegisterMediaRequest, opts ...grpc.CallOption) (*RegisterMediaResponse, error) {
	return invoke[RegisterMediaResponse](ctx, c.cc, MethodRegisterMedia, in, opts)
}

func (c *courseEditorClient) ListMedia(ctx context.Context, in *ListMediaRequest, opts ...grpc.CallOption) (*ListMediaResponse, error) {
	return invoke[ListMediaResponse](ctx, c.cc, MethodListMedia, in, opts)
}
