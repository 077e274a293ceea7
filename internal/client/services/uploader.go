package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/goinglive/internal/client/client"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/editor/uploads"
	"github.com/dmitrijs2005/goinglive/internal/filex"
	"github.com/dmitrijs2005/goinglive/internal/logging"
	"github.com/dmitrijs2005/goinglive/internal/netx"
	"github.com/dmitrijs2005/goinglive/internal/rpc"
)

// Uploader executes queued uploads: it asks the server for a presigned PUT,
// streams the file to object storage and registers the stored object.
type Uploader struct {
	client   client.Client
	courseID string
	http     *http.Client
	logger   logging.Logger
}

var _ uploads.Executor = (*Uploader)(nil)

func NewUploader(c client.Client, courseID string, httpClient *http.Client, logger logging.Logger) *Uploader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Uploader{client: c, courseID: courseID, http: httpClient, logger: logger}
}

// Execute uploads p and returns the storage key of the new object.
func (u *Uploader) Execute(ctx context.Context, p uploads.PendingUpload) (string, error) {
	f, size, err := filex.OpenRegular(p.File.Path)
	if err != nil {
		return "", uploads.Unreadable(p.ElementID, err)
	}
	defer f.Close()

	presigned, err := u.client.PresignUpload(ctx, &rpc.PresignUploadRequest{
		CourseID:    u.courseID,
		ElementID:   p.ElementID,
		FileName:    p.File.Name,
		ContentType: p.File.ContentType,
		Size:        size,
		Disposition: p.Disposition,
	})
	if err != nil {
		return "", uploads.Transport(p.ElementID, err)
	}

	err = netx.UploadToPresignedURL(ctx, u.http, netx.Upload{
		Method:  presigned.Method,
		URL:     presigned.URL,
		Headers: presigned.Headers,
		Body:    f,
		Size:    size,
	})
	if err != nil {
		return "", uploads.Transport(p.ElementID, err)
	}

	_, err = u.client.RegisterMedia(ctx, course.MediaRecord{
		Key:         presigned.Key,
		CourseID:    u.courseID,
		FileName:    p.File.Name,
		Public:      p.Public,
		Disposition: p.Disposition,
	})
	if err != nil {
		return "", uploads.Transport(p.ElementID, err)
	}

	u.logger.Debug(ctx, "file uploaded", "element_id", p.ElementID, "key", presigned.Key, "size", size)
	return presigned.Key, nil
}
