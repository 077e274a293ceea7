package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/server/models"
	"github.com/dmitrijs2005/goinglive/internal/server/services"
)

type fakeUsers struct {
	loginErr   error
	profile    *course.Profile
	profileErr error
}

func (f *fakeUsers) Login(_ context.Context, username, password string) (*services.AccessToken, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if password != "pw" {
		return nil, common.ErrorUnauthorized
	}
	return &services.AccessToken{Token: "tok-" + username, ExpiresAt: time.Unix(1700000000, 0).UTC()}, nil
}

func (f *fakeUsers) Profile(_ context.Context, userID string) (*course.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile != nil {
		return f.profile, nil
	}
	return &course.Profile{UserID: userID, Username: "alice", DisplayName: "Alice"}, nil
}

type fakeContent struct {
	lastUser   string
	lastCourse string
	committed  course.Snapshot
	fetchErr   error
	commitErr  error
}

func (f *fakeContent) Fetch(_ context.Context, userID, courseID string) (*models.CourseContent, error) {
	f.lastUser, f.lastCourse = userID, courseID
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return &models.CourseContent{CourseID: courseID, Snapshot: f.committed, Version: 7}, nil
}

func (f *fakeContent) Commit(_ context.Context, userID, courseID string, snapshot course.Snapshot) (*models.CourseContent, error) {
	f.lastUser, f.lastCourse = userID, courseID
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	f.committed = snapshot
	return &models.CourseContent{CourseID: courseID, Snapshot: snapshot, Version: 8}, nil
}

type fakeMedia struct {
	lastReq services.PresignRequest
	records []course.MediaRecord
	err     error
}

func (f *fakeMedia) PresignUpload(_ context.Context, _ string, req services.PresignRequest) (*services.PresignedUpload, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &services.PresignedUpload{
		Key:     "courses/" + req.CourseID + "/" + req.ElementID + "/k",
		URL:     "http://s3/put",
		Method:  "PUT",
		Headers: map[string]string{"Content-Type": req.ContentType},
	}, nil
}

func (f *fakeMedia) Register(_ context.Context, _ string, rec course.MediaRecord) (*course.MediaRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec.URL = "https://cdn/" + rec.Key
	f.records = append(f.records, rec)
	return &rec, nil
}

func (f *fakeMedia) List(_ context.Context, _ string, _ string) ([]course.MediaRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}
