package rpc

import (
	"time"

	"github.com/dmitrijs2005/goinglive/internal/course"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type SessionRequest struct{}

type SessionResponse struct {
	Profile course.Profile `json:"profile"`
}

type FetchContentRequest struct {
	CourseID string `json:"course_id"`
}

type FetchContentResponse struct {
	Snapshot course.Snapshot `json:"snapshot"`
	Version  int64           `json:"version"`
}

type CommitContentRequest struct {
	CourseID string          `json:"course_id"`
	Snapshot course.Snapshot `json:"snapshot"`
}

// CommitContentResponse carries the snapshot as stored, after sanitizing.
type CommitContentResponse struct {
	Snapshot course.Snapshot `json:"snapshot"`
	Version  int64           `json:"version"`
}

type PresignUploadRequest struct {
	CourseID    string             `json:"course_id"`
	ElementID   string             `json:"element_id"`
	FileName    string             `json:"file_name"`
	ContentType string             `json:"content_type"`
	Size        int64              `json:"size"`
	Disposition course.Disposition `json:"disposition"`
}

// PresignUploadResponse carries a presigned PUT. Headers are part of the
// signature and must be sent unchanged.
type PresignUploadResponse struct {
	Key       string            `json:"key"`
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type RegisterMediaRequest struct {
	Media course.MediaRecord `json:"media"`
}

type RegisterMediaResponse struct {
	Media course.MediaRecord `json:"media"`
}

type ListMediaRequest struct {
	CourseID string `json:"course_id"`
}

type ListMediaResponse struct {
	Media []course.MediaRecord `json:"media"`
}
