// Package grpc exposes the course server's services over the CourseEditor
// gRPC service.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/logging"
	"github.com/dmitrijs2005/goinglive/internal/rpc"
	"github.com/dmitrijs2005/goinglive/internal/server/models"
	"github.com/dmitrijs2005/goinglive/internal/server/services"
)

// UserService is the subset of services.UserService used by the handlers.
type UserService interface {
	Login(ctx context.Context, username, password string) (*services.AccessToken, error)
	Profile(ctx context.Context, userID string) (*course.Profile, error)
}

// ContentService is the subset of services.ContentService used by the handlers.
type ContentService interface {
	Fetch(ctx context.Context, userID, courseID string) (*models.CourseContent, error)
	Commit(ctx context.Context, userID, courseID string, snapshot course.Snapshot) (*models.CourseContent, error)
}

// MediaService is the subset of services.MediaService used by the handlers.
type MediaService interface {
	PresignUpload(ctx context.Context, userID string, req services.PresignRequest) (*services.PresignedUpload, error)
	Register(ctx context.Context, userID string, rec course.MediaRecord) (*course.MediaRecord, error)
	List(ctx context.Context, userID, courseID string) ([]course.MediaRecord, error)
}

type GRPCServer struct {
	rpc.UnimplementedCourseEditorServer
	address   string
	users     UserService
	content   ContentService
	media     MediaService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us UserService, cs ContentService, ms MediaService, secretKey string) (*GRPCServer, error) {
	if l == nil {
		l = logging.Nop()
	}
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		content:   cs,
		media:     ms,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterCourseEditorServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
