package services

import (
	"context"
	"database/sql"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/logging"
	sc "github.com/dmitrijs2005/goinglive/internal/server/config"
	"github.com/dmitrijs2005/goinglive/internal/server/models"
	"github.com/dmitrijs2005/goinglive/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	newStorageKeyID = uuid.NewString
)

// PresignRequest describes a file the client is about to upload.
type PresignRequest struct {
	CourseID    string
	ElementID   string
	FileName    string
	ContentType string
	Size        int64
	Disposition course.Disposition
}

// PresignedUpload tells the client where and how to PUT the file bytes.
// Headers must be sent verbatim; they are covered by the signature.
type PresignedUpload struct {
	Key       string
	URL       string
	Method    string
	Headers   map[string]string
	ExpiresAt time.Time
}

// MediaService hands out presigned upload URLs and records uploaded objects.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewMediaService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *MediaService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &MediaService{
		db:          db,
		repomanager: m,
		config:      cfg,
		logger:      logger,
	}
}

// StorageKey builds the object key of an upload:
// courses/<course>/<element>/<random>-<file name>.
func StorageKey(courseID, elementID, fileName string) string {
	return fmt.Sprintf("%s%s/%s-%s", mediaPrefix(courseID), elementID, newStorageKeyID(), safeFileName(fileName))
}

func safeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}

func (s *MediaService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload validates req, claims the course for userID and returns a
// presigned PUT for a fresh storage key.
func (s *MediaService) PresignUpload(ctx context.Context, userID string, req PresignRequest) (*PresignedUpload, error) {
	if req.ElementID == "" || req.FileName == "" {
		return nil, fmt.Errorf("%w: element id and file name are required", common.ErrorInvalidInput)
	}
	if req.Size < 0 || (s.config.MaxUploadSize > 0 && req.Size > s.config.MaxUploadSize) {
		return nil, fmt.Errorf("%w: size %d exceeds limit of %d bytes", common.ErrorInvalidInput, req.Size, s.config.MaxUploadSize)
	}
	disposition := req.Disposition
	if disposition == "" {
		disposition = course.DispositionInline
	}
	if disposition != course.DispositionInline && disposition != course.DispositionAttachment {
		return nil, fmt.Errorf("%w: disposition %q", common.ErrorInvalidInput, disposition)
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := claimCourse(ctx, s.repomanager.Courses(s.db), req.CourseID, userID); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error configuring object storage: %w", err)
	}

	bucket := s.config.S3Bucket
	key := StorageKey(req.CourseID, req.ElementID, req.FileName)
	in := &s3.PutObjectInput{
		Bucket:             &bucket,
		Key:                &key,
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(mime.FormatMediaType(string(disposition), map[string]string{"filename": safeFileName(req.FileName)})),
	}
	if req.Size > 0 {
		in.ContentLength = aws.Int64(req.Size)
	}

	validity := s.config.PresignValidityDuration
	if validity <= 0 {
		validity = 15 * time.Minute
	}
	signed, err := presignPutObject(presignClient, ctx, in, s3.WithPresignExpires(validity))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	s.logger.Debug(ctx, "upload presigned", "course_id", req.CourseID, "element_id", req.ElementID, "key", key)

	return &PresignedUpload{
		Key:       key,
		URL:       signed.URL,
		Method:    signed.Method,
		Headers:   flattenHeaders(signed.SignedHeader),
		ExpiresAt: time.Now().Add(validity),
	}, nil
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if strings.EqualFold(k, "Host") || len(v) == 0 {
			continue
		}
		out[http.CanonicalHeaderKey(k)] = strings.Join(v, ",")
	}
	return out
}

// Register records an uploaded object so it can be retrieved later. Keys
// outside the course's prefix are rejected.
func (s *MediaService) Register(ctx context.Context, userID string, rec course.MediaRecord) (*course.MediaRecord, error) {
	if !strings.HasPrefix(rec.Key, mediaPrefix(rec.CourseID)) || len(rec.Key) == len(mediaPrefix(rec.CourseID)) {
		return nil, fmt.Errorf("%w: key %q does not belong to course %q", common.ErrorInvalidInput, rec.Key, rec.CourseID)
	}
	if rec.Disposition == "" {
		rec.Disposition = course.DispositionInline
	}
	rec.URL = ""
	if rec.Public {
		rec.URL = s.publicURL(rec.Key)
	}

	repo := s.repomanager.Courses(s.db)
	if _, err := claimCourse(ctx, repo, rec.CourseID, userID); err != nil {
		return nil, err
	}

	err := s.repomanager.Media(s.db).Upsert(ctx, &models.Media{
		Key:         rec.Key,
		CourseID:    rec.CourseID,
		OwnerID:     userID,
		FileName:    rec.FileName,
		Public:      rec.Public,
		URL:         rec.URL,
		Disposition: rec.Disposition,
	})
	if err != nil {
		return nil, fmt.Errorf("error registering media: %w", err)
	}

	s.logger.Info(ctx, "media registered", "course_id", rec.CourseID, "key", rec.Key, "public", rec.Public)
	return &rec, nil
}

// List returns the media records of courseID.
func (s *MediaService) List(ctx context.Context, userID, courseID string) ([]course.MediaRecord, error) {
	exists, err := checkCourse(ctx, s.repomanager.Courses(s.db), courseID, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []course.MediaRecord{}, nil
	}

	items, err := s.repomanager.Media(s.db).ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing media: %w", err)
	}
	out := make([]course.MediaRecord, 0, len(items))
	for _, m := range items {
		out = append(out, course.MediaRecord{
			Key:         m.Key,
			CourseID:    m.CourseID,
			FileName:    m.FileName,
			Public:      m.Public,
			URL:         m.URL,
			Disposition: m.Disposition,
		})
	}
	return out, nil
}

func (s *MediaService) publicURL(key string) string {
	base := s.config.S3PublicBaseURL
	if base == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/" + key
}
