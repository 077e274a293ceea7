package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/rpc"
	"github.com/dmitrijs2005/goinglive/internal/server/services"
)

// toStatus maps service errors to gRPC status errors. Unknown errors are
// logged and reported as Internal without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorInvalidInput), errors.Is(err, common.ErrorInvalidSnapshot):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) requireUser(ctx context.Context) (string, error) {
	id, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "unauthorized")
	}
	return id, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	token, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Logged in", "username", req.Username)
	return &rpc.LoginResponse{AccessToken: token.Token, ExpiresAt: token.ExpiresAt}, nil
}

func (s *GRPCServer) Session(ctx context.Context, req *rpc.SessionRequest) (*rpc.SessionResponse, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.users.Profile(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.SessionResponse{Profile: *p}, nil
}

func (s *GRPCServer) FetchContent(ctx context.Context, req *rpc.FetchContentRequest) (*rpc.FetchContentResponse, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.content.Fetch(ctx, userID, req.CourseID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.FetchContentResponse{Snapshot: c.Snapshot, Version: c.Version}, nil
}

func (s *GRPCServer) CommitContent(ctx context.Context, req *rpc.CommitContentRequest) (*rpc.CommitContentResponse, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.content.Commit(ctx, userID, req.CourseID, req.Snapshot)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.CommitContentResponse{Snapshot: c.Snapshot, Version: c.Version}, nil
}

func (s *GRPCServer) PresignUpload(ctx context.Context, req *rpc.PresignUploadRequest) (*rpc.PresignUploadResponse, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	up, err := s.media.PresignUpload(ctx, userID, services.PresignRequest{
		CourseID:    req.CourseID,
		ElementID:   req.ElementID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
		Disposition: req.Disposition,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PresignUploadResponse{
		Key:       up.Key,
		URL:       up.URL,
		Method:    up.Method,
		Headers:   up.Headers,
		ExpiresAt: up.ExpiresAt,
	}, nil
}

func (s *GRPCServer) RegisterMedia(ctx context.Context, req *rpc.RegisterMediaRequest) (*rpc.RegisterMediaResponse, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.media.Register(ctx, userID, req.Media)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.RegisterMediaResponse{Media: *rec}, nil
}

func (s *GRPCServer) ListMedia(ctx context.Context, req *rpc.ListMediaRequest) (*rpc.ListMediaResponse, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.media.List(ctx, userID, req.CourseID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if items == nil {
		items = []course.MediaRecord{}
	}
	return &rpc.ListMediaResponse{Media: items}, nil
}
