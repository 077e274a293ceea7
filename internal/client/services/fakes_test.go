package services

import (
	"context"

	"github.com/dmitrijs2005/goinglive/internal/client/client"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/rpc"
)

type fakeClient struct {
	loggedIn bool
	closed   bool

	loginErr    error
	pingErr     error
	presignURL  string
	presignErr  error
	registerErr error

	presignReq *rpc.PresignUploadRequest
	registered []course.MediaRecord
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error { f.closed = true; return nil }
func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) Login(_ context.Context, username, password string) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = true
	return nil
}

func (f *fakeClient) Logout() { f.loggedIn = false }

func (f *fakeClient) Session(context.Context) (*course.Profile, error) {
	if !f.loggedIn {
		return nil, client.ErrNoSession
	}
	return &course.Profile{UserID: "u1", Username: "alice", DisplayName: "Alice"}, nil
}

func (f *fakeClient) FetchContent(context.Context, string) (course.Snapshot, error) {
	return course.Snapshot{}, nil
}

func (f *fakeClient) CommitContent(_ context.Context, _ string, s course.Snapshot) (course.Snapshot, error) {
	return s, nil
}

func (f *fakeClient) PresignUpload(_ context.Context, req *rpc.PresignUploadRequest) (*rpc.PresignUploadResponse, error) {
	f.presignReq = req
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	return &rpc.PresignUploadResponse{
		Key:     "courses/" + req.CourseID + "/" + req.ElementID + "/rnd-" + req.FileName,
		URL:     f.presignURL,
		Method:  "PUT",
		Headers: map[string]string{"Content-Type": req.ContentType},
	}, nil
}

func (f *fakeClient) RegisterMedia(_ context.Context, rec course.MediaRecord) (*course.MediaRecord, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered = append(f.registered, rec)
	return &rec, nil
}

func (f *fakeClient) ListMedia(context.Context, string) ([]course.MediaRecord, error) {
	return f.registered, nil
}
