package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "goinglive.editor.CourseEditor"

const (
	MethodPing          = "Ping"
	MethodLogin         = "Login"
	MethodSession       = "Session"
	MethodFetchContent  = "FetchContent"
	MethodCommitContent = "CommitContent"
	MethodPresignUpload = "PresignUpload"
	MethodRegisterMedia = "RegisterMedia"
	MethodListMedia     = "ListMedia"
)

// FullMethod returns the gRPC path of method, as seen by interceptors.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// CourseEditorServer is the server API of the CourseEditor service.
// Implementations should embed UnimplementedCourseEditorServer.
type CourseEditorServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Session(context.Context, *SessionRequest) (*SessionResponse, error)
	FetchContent(context.Context, *FetchContentRequest) (*FetchContentResponse, error)
	CommitContent(context.Context, *CommitContentRequest) (*CommitContentResponse, error)
	PresignUpload(context.Context, *PresignUploadRequest) (*PresignUploadResponse, error)
	RegisterMedia(context.Context, *RegisterMediaRequest) (*RegisterMediaResponse, error)
	ListMedia(context.Context, *ListMediaRequest) (*ListMediaResponse, error)
}

type UnimplementedCourseEditorServer struct{}

func (UnimplementedCourseEditorServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented(MethodPing)
}
func (UnimplementedCourseEditorServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented(MethodLogin)
}
func (UnimplementedCourseEditorServer) Session(context.Context, *SessionRequest) (*SessionResponse, error) {
	return nil, unimplemented(MethodSession)
}
func (UnimplementedCourseEditorServer) FetchContent(context.Context, *FetchContentRequest) (*FetchContentResponse, error) {
	return nil, unimplemented(MethodFetchContent)
}
func (UnimplementedCourseEditorServer) CommitContent(context.Context, *CommitContentRequest) (*CommitContentResponse, error) {
	return nil, unimplemented(MethodCommitContent)
}
func (UnimplementedCourseEditorServer) PresignUpload(context.Context, *PresignUploadRequest) (*PresignUploadResponse, error) {
	return nil, unimplemented(MethodPresignUpload)
}
func (UnimplementedCourseEditorServer) RegisterMedia(context.Context, *RegisterMediaRequest) (*RegisterMediaResponse, error) {
	return nil, unimplemented(MethodRegisterMedia)
}
func (UnimplementedCourseEditorServer) ListMedia(context.Context, *ListMediaRequest) (*ListMediaResponse, error) {
	return nil, unimplemented(MethodListMedia)
}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

// unary adapts a typed server method to grpc.MethodDesc, running it through
// the server's interceptor chain when one is installed.
func unary[Req, Resp any](method string, call func(CourseEditorServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CourseEditorServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CourseEditorServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the CourseEditor service for grpc.ServiceRegistrar.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CourseEditorServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, CourseEditorServer.Ping),
		unary(MethodLogin, CourseEditorServer.Login),
		unary(MethodSession, CourseEditorServer.Session),
		unary(MethodFetchContent, CourseEditorServer.FetchContent),
		unary(MethodCommitContent, CourseEditorServer.CommitContent),
		unary(MethodPresignUpload, CourseEditorServer.PresignUpload),
		unary(MethodRegisterMedia, CourseEditorServer.RegisterMedia),
		unary(MethodListMedia, CourseEditorServer.ListMedia),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "goinglive/editor",
}

func RegisterCourseEditorServer(s grpc.ServiceRegistrar, srv CourseEditorServer) {
	s.RegisterService(&ServiceDesc, srv)
}
