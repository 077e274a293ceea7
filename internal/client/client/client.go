package client

import (
	"context"

	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/rpc"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Login(ctx context.Context, username, password string) error
	// Logout forgets the access token.
	Logout()
	Session(ctx context.Context) (*course.Profile, error)
	FetchContent(ctx context.Context, courseID string) (course.Snapshot, error)
	// CommitContent returns the snapshot as the server stored it.
	CommitContent(ctx context.Context, courseID string, snapshot course.Snapshot) (course.Snapshot, error)
	PresignUpload(ctx context.Context, req *rpc.PresignUploadRequest) (*rpc.PresignUploadResponse, error)
	RegisterMedia(ctx context.Context, rec course.MediaRecord) (*course.MediaRecord, error)
	ListMedia(ctx context.Context, courseID string) ([]course.MediaRecord, error)
}
